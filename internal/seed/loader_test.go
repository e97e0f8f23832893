package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pftracker/internal/adapters"
	"pftracker/internal/core"
	applog "pftracker/internal/log"
	"pftracker/internal/storage/memory"
)

const testDataset = `{
  "transactions": [
    {"id": 1, "date": "2024-01-15", "category": "Dining", "amount": 10, "type": "income", "user_forced_type": "expense"},
    {"date": "2024-02-03", "category": "Axis SIP", "amount": 5000},
    {"id": "keep", "date": "2024-03-01", "month": "2023-12", "category": "Salary", "amount": 100, "type": "income"}
  ],
  "lookups": {"asset_types": ["Gold"]}
}`

func staticSource(data string) Source {
	return func(context.Context) ([]byte, error) { return []byte(data), nil }
}

func newLoader(t *testing.T, values map[string]string, development bool, src Source) (*Loader, *memory.Store) {
	t.Helper()
	blobs := memory.NewWithValues(values)
	store := adapters.NewCollectionStore(blobs, applog.Discard())
	return NewLoader(store, src, development, applog.Discard()), blobs
}

func TestLoadSampleDataSkipsOutsideDevelopment(t *testing.T) {
	l, blobs := newLoader(t, nil, false, staticSource(testDataset))
	res := l.LoadSampleData(context.Background(), Options{})
	if res.Outcome != OutcomeSkippedEnvironment {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeSkippedEnvironment)
	}
	if n := len(blobs.Snapshot()); n != 0 {
		t.Fatalf("storage changed: %d keys written", n)
	}
}

func TestLoadSampleDataKeepsExistingData(t *testing.T) {
	existing := map[string]string{"pf_assets_v1": `[{"id":"mine","name":"Mine"}]`}
	l, blobs := newLoader(t, existing, true, staticSource(testDataset))

	res := l.LoadSampleData(context.Background(), Options{})
	if res.Outcome != OutcomeSkippedExisting {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeSkippedExisting)
	}
	if got := blobs.Snapshot(); !reflect.DeepEqual(got, existing) {
		t.Fatalf("storage changed: %v", got)
	}
}

func TestLoadSampleDataForceOverwrites(t *testing.T) {
	existing := map[string]string{
		"pf_transactions_v1": `[{"id":"old"}]`,
		"pf_assets_v1":       `[{"id":"mine"}]`,
	}
	// Force also overrides the environment gate.
	l, blobs := newLoader(t, existing, false, staticSource(testDataset))

	res := l.LoadSampleData(context.Background(), Options{Force: true})
	if res.Outcome != OutcomeLoaded {
		t.Fatalf("outcome = %s (%v), want loaded", res.Outcome, res.Err)
	}
	if res.Transactions != 3 {
		t.Errorf("transactions written = %d, want 3", res.Transactions)
	}

	snap := blobs.Snapshot()
	for _, c := range adapters.AllCollections {
		if _, ok := snap[c.Key()]; !ok {
			t.Errorf("key %s not written", c.Key())
		}
	}
	if snap["pf_assets_v1"] != "[]" {
		t.Errorf("assets = %s, want []", snap["pf_assets_v1"])
	}

	store := adapters.NewCollectionStore(blobs, applog.Discard())
	txs := store.LoadTransactions(context.Background())
	byCategory := map[string]core.Transaction{}
	for _, tx := range txs {
		byCategory[tx.Category] = tx
	}

	dining := byCategory["Dining"]
	if dining.ID != "1" || dining.Month != "2024-01" || dining.Type != core.TypeExpense {
		t.Errorf("dining = %+v", dining)
	}
	sip := byCategory["Axis SIP"]
	if sip.ID == "" || sip.Month != "2024-02" || sip.Type != "" {
		t.Errorf("sip = %+v", sip)
	}
	// A stale month in the seed record follows its date.
	if salary := byCategory["Salary"]; salary.Month != "2024-03" {
		t.Errorf("salary month = %q, want 2024-03", salary.Month)
	}
}

func TestLoadSampleDataLoadsIntoEmptyDevelopmentStore(t *testing.T) {
	l, blobs := newLoader(t, nil, true, EmbeddedSource())
	res := l.LoadSampleData(context.Background(), Options{})
	if res.Outcome != OutcomeLoaded {
		t.Fatalf("outcome = %s (%v), want loaded", res.Outcome, res.Err)
	}
	if res.Transactions == 0 || res.Assets == 0 {
		t.Fatalf("embedded sample looks empty: %+v", res)
	}

	store := adapters.NewCollectionStore(blobs, applog.Discard())
	for _, tx := range store.LoadTransactions(context.Background()) {
		if tx.Month != core.DeriveMonth(tx.Date) {
			t.Errorf("transaction %s month %q does not match date %q", tx.ID, tx.Month, tx.Date)
		}
	}
}

func TestLoadSampleDataFailuresAreContained(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{name: "source error", src: func(context.Context) ([]byte, error) { return nil, errors.New("unreadable") }},
		{name: "corrupt dataset", src: staticSource(`{"transactions": "nope"}`)},
		{name: "panicking source", src: func(context.Context) ([]byte, error) { panic("boom") }},
		{name: "missing file", src: FileSource(filepath.Join(t.TempDir(), "absent.json"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, blobs := newLoader(t, nil, true, tt.src)
			res := l.LoadSampleData(context.Background(), Options{})
			if res.Outcome != OutcomeFailed || res.Err == nil {
				t.Fatalf("result = %+v, want failed with error", res)
			}
			if n := len(blobs.Snapshot()); n != 0 {
				t.Fatalf("failed load wrote %d keys", n)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(testDataset), 0o600); err != nil {
		t.Fatal(err)
	}
	l, _ := newLoader(t, nil, true, FileSource(path))
	if res := l.LoadSampleData(context.Background(), Options{}); res.Outcome != OutcomeLoaded {
		t.Fatalf("outcome = %s (%v)", res.Outcome, res.Err)
	}
}
