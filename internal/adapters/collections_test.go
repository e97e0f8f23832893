package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"pftracker/internal/core"
	applog "pftracker/internal/log"
	"pftracker/internal/storage"
	"pftracker/internal/storage/memory"
)

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, string) (string, error)    { return "", f.err }
func (f failingStore) Put(context.Context, string, string) error       { return f.err }
func (f failingStore) PutAll(context.Context, map[string]string) error { return f.err }
func (f failingStore) Close() error                                    { return nil }

func newStore(t *testing.T, values map[string]string) (*CollectionStore, *memory.Store) {
	t.Helper()
	blobs := memory.NewWithValues(values)
	return NewCollectionStore(blobs, applog.Discard()), blobs
}

func TestCollectionKeys(t *testing.T) {
	want := map[Collection]string{
		Transactions: "pf_transactions_v1",
		Lookups:      "pf_lookups_v1",
		Assets:       "pf_assets_v1",
		Liquidations: "pf_liquidations_v1",
	}
	for c, key := range want {
		if got := c.Key(); got != key {
			t.Errorf("%s.Key() = %q, want %q", c, got, key)
		}
	}
}

func TestLoadFallsBackToEmptyDefaults(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "missing keys", values: nil},
		{name: "corrupt content", values: map[string]string{
			"pf_transactions_v1": "{not json",
			"pf_lookups_v1":      "[1,2",
			"pf_assets_v1":       "oops",
			"pf_liquidations_v1": "{}",
		}},
		{name: "null content", values: map[string]string{
			"pf_transactions_v1": "null",
			"pf_lookups_v1":      "null",
			"pf_assets_v1":       "null",
			"pf_liquidations_v1": "null",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t, tt.values)
			d := s.LoadAll(context.Background())
			if d.Transactions == nil || len(d.Transactions) != 0 {
				t.Errorf("transactions = %#v, want empty", d.Transactions)
			}
			if d.Lookups == nil || len(d.Lookups) != 0 {
				t.Errorf("lookups = %#v, want empty", d.Lookups)
			}
			if d.Assets == nil || len(d.Assets) != 0 {
				t.Errorf("assets = %#v, want empty", d.Assets)
			}
			if d.Liquidations == nil || len(d.Liquidations) != 0 {
				t.Errorf("liquidations = %#v, want empty", d.Liquidations)
			}
		})
	}
}

func TestLoadBackendErrorFallsBack(t *testing.T) {
	s := NewCollectionStore(failingStore{err: errors.New("disk gone")}, applog.Discard())
	if txs := s.LoadTransactions(context.Background()); len(txs) != 0 {
		t.Fatalf("expected empty transactions, got %v", txs)
	}
}

func TestLoadTransactionsDerivesMonth(t *testing.T) {
	s, _ := newStore(t, map[string]string{
		"pf_transactions_v1": `[
			{"id":"1","date":"2024-01-03","amount":10},
			{"id":"2","date":"2024-03-02","month":"2024-01","amount":20},
			{"id":"3","month":"2023-12","amount":30}
		]`,
	})

	got := s.LoadTransactions(context.Background())
	want := map[core.ID]string{"1": "2024-01", "2": "2024-03", "3": "2023-12"}
	if len(got) != len(want) {
		t.Fatalf("LoadTransactions returned %d records", len(got))
	}
	for _, tx := range got {
		if tx.Month != want[tx.ID] {
			t.Errorf("id %s: month = %q, want %q", tx.ID, tx.Month, want[tx.ID])
		}
	}
}

func TestSaveAndLoadTransactions(t *testing.T) {
	s, blobs := newStore(t, nil)
	ctx := context.Background()
	txs := []core.Transaction{{
		ID:       "t1",
		Date:     "2024-01-15",
		Month:    "2024-01",
		Category: "Groceries",
		Amount:   decimal.RequireFromString("42.5"),
		Type:     core.TypeExpense,
	}}
	if err := s.SaveTransactions(ctx, txs); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	raw, err := blobs.Get(ctx, "pf_transactions_v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("stored value is not a JSON array: %v", err)
	}
	if decoded[0]["amount"] != 42.5 {
		t.Errorf("amount stored as %#v, want JSON number", decoded[0]["amount"])
	}
	if _, ok := decoded[0]["notes"]; ok {
		t.Errorf("empty notes should be omitted")
	}

	got := s.LoadTransactions(ctx)
	if len(got) != 1 || got[0].ID != "t1" || !got[0].Amount.Equal(txs[0].Amount) {
		t.Fatalf("LoadTransactions = %#v", got)
	}
}

func TestSaveEmptyCollectionsWritesEmptyJSON(t *testing.T) {
	s, blobs := newStore(t, nil)
	ctx := context.Background()
	if err := s.SaveAssets(ctx, nil); err != nil {
		t.Fatalf("SaveAssets: %v", err)
	}
	if err := s.SaveLookups(ctx, nil); err != nil {
		t.Fatalf("SaveLookups: %v", err)
	}
	snap := blobs.Snapshot()
	if snap["pf_assets_v1"] != "[]" {
		t.Errorf("assets = %q, want []", snap["pf_assets_v1"])
	}
	if snap["pf_lookups_v1"] != "{}" {
		t.Errorf("lookups = %q, want {}", snap["pf_lookups_v1"])
	}
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	s := NewCollectionStore(failingStore{err: errors.New("quota exceeded")}, applog.Discard())
	ctx := context.Background()

	if err := s.SaveAssets(ctx, []core.Asset{{ID: "a"}}); !errors.Is(err, ErrPersistence) {
		t.Errorf("SaveAssets error = %v, want ErrPersistence", err)
	}
	if err := s.SaveAll(ctx, core.Dataset{}); !errors.Is(err, ErrPersistence) {
		t.Errorf("SaveAll error = %v, want ErrPersistence", err)
	}
}

func TestSaveAllWritesEveryKey(t *testing.T) {
	s, blobs := newStore(t, map[string]string{"pf_assets_v1": `[{"id":"old"}]`})
	ctx := context.Background()
	d := core.Dataset{
		Transactions: []core.Transaction{{ID: "t1", Date: "2024-02-01", Month: "2024-02"}},
		Lookups:      core.Lookups{core.LookupAssetTypes: {"Gold"}},
	}
	if err := s.SaveAll(ctx, d); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	snap := blobs.Snapshot()
	for _, c := range AllCollections {
		if _, ok := snap[c.Key()]; !ok {
			t.Errorf("key %s not written", c.Key())
		}
	}
	if snap["pf_assets_v1"] != "[]" || snap["pf_liquidations_v1"] != "[]" {
		t.Errorf("missing sections should be stored empty: %v", snap)
	}
	if got := s.LoadLookups(ctx).AssetTypes(); len(got) != 1 || got[0] != "Gold" {
		t.Errorf("asset types = %v", got)
	}
}

func TestHasAny(t *testing.T) {
	ctx := context.Background()

	empty, _ := newStore(t, map[string]string{"unrelated": "x"})
	if ok, err := empty.HasAny(ctx); err != nil || ok {
		t.Fatalf("HasAny on empty store = %v, %v", ok, err)
	}

	withLiquidations, _ := newStore(t, map[string]string{"pf_liquidations_v1": "[]"})
	if ok, err := withLiquidations.HasAny(ctx); err != nil || !ok {
		t.Fatalf("HasAny = %v, %v, want true", ok, err)
	}

	broken := NewCollectionStore(failingStore{err: errors.New("boom")}, applog.Discard())
	if _, err := broken.HasAny(ctx); err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("HasAny should surface backend errors, got %v", err)
	}
}
