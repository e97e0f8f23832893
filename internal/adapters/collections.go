// Package adapters maps the four logical collections onto a blob store.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pftracker/internal/core"
	applog "pftracker/internal/log"
	"pftracker/internal/storage"
)

// Collection names one of the four persisted groups.
type Collection string

const (
	Transactions Collection = "transactions"
	Lookups      Collection = "lookups"
	Assets       Collection = "assets"
	Liquidations Collection = "liquidations"
)

// AllCollections lists every collection in storage order.
var AllCollections = []Collection{Transactions, Lookups, Assets, Liquidations}

// Key returns the fixed storage key of the collection.
func (c Collection) Key() string {
	return "pf_" + string(c) + "_v1"
}

func (c Collection) String() string {
	return string(c)
}

// ErrPersistence wraps every failed write.
var ErrPersistence = errors.New("persistence error")

// CollectionStore is the typed read/write wrapper over a blob store. Reads
// never fail: a missing key, a backend error or corrupt content yields the
// empty default and a log line. Writes log and return an ErrPersistence.
type CollectionStore struct {
	blobs  storage.BlobStore
	logger *applog.Logger
}

func NewCollectionStore(blobs storage.BlobStore, logger *applog.Logger) *CollectionStore {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &CollectionStore{
		blobs:  blobs,
		logger: logger.WithComponent(applog.ComponentStorage),
	}
}

// LoadTransactions returns the stored transactions with month recomputed
// from date. Stored months are never trusted.
func (s *CollectionStore) LoadTransactions(ctx context.Context) []core.Transaction {
	txs := load(ctx, s, Transactions, []core.Transaction{})
	for i := range txs {
		if txs[i].Date != "" {
			txs[i].Month = core.DeriveMonth(txs[i].Date)
		}
	}
	return txs
}

func (s *CollectionStore) LoadLookups(ctx context.Context) core.Lookups {
	return load(ctx, s, Lookups, core.Lookups{})
}

func (s *CollectionStore) LoadAssets(ctx context.Context) []core.Asset {
	return load(ctx, s, Assets, []core.Asset{})
}

func (s *CollectionStore) LoadLiquidations(ctx context.Context) []json.RawMessage {
	return load(ctx, s, Liquidations, []json.RawMessage{})
}

// LoadAll reads the four collections.
func (s *CollectionStore) LoadAll(ctx context.Context) core.Dataset {
	return core.Dataset{
		Transactions: s.LoadTransactions(ctx),
		Lookups:      s.LoadLookups(ctx),
		Assets:       s.LoadAssets(ctx),
		Liquidations: s.LoadLiquidations(ctx),
	}
}

func (s *CollectionStore) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	return s.save(ctx, Transactions, nonNil(txs))
}

func (s *CollectionStore) SaveLookups(ctx context.Context, l core.Lookups) error {
	if l == nil {
		l = core.Lookups{}
	}
	return s.save(ctx, Lookups, l)
}

func (s *CollectionStore) SaveAssets(ctx context.Context, assets []core.Asset) error {
	return s.save(ctx, Assets, nonNil(assets))
}

func (s *CollectionStore) SaveLiquidations(ctx context.Context, items []json.RawMessage) error {
	return s.save(ctx, Liquidations, nonNil(items))
}

// SaveAll writes the four collections in one batch, so readers observe
// either the old or the new version of all of them.
func (s *CollectionStore) SaveAll(ctx context.Context, d core.Dataset) error {
	lookups := d.Lookups
	if lookups == nil {
		lookups = core.Lookups{}
	}
	sections := map[Collection]any{
		Transactions: nonNil(d.Transactions),
		Lookups:      lookups,
		Assets:       nonNil(d.Assets),
		Liquidations: nonNil(d.Liquidations),
	}
	values := make(map[string]string, len(sections))
	for c, v := range sections {
		data, err := json.Marshal(v)
		if err != nil {
			return s.writeFailed(ctx, c, applog.OpSave, err)
		}
		values[c.Key()] = string(data)
	}
	if err := s.blobs.PutAll(ctx, values); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save collections",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpSave,
			applog.FieldCount, len(values))
		return fmt.Errorf("%w: save all collections: %v", ErrPersistence, err)
	}
	return nil
}

// HasAny reports whether any collection key holds a value. Unlike the
// loaders it returns backend errors, since callers must not mistake an
// unreadable store for an empty one.
func (s *CollectionStore) HasAny(ctx context.Context) (bool, error) {
	for _, c := range AllCollections {
		_, err := s.blobs.Get(ctx, c.Key())
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("check %s: %w", c.Key(), err)
		}
	}
	return false, nil
}

func load[T any](ctx context.Context, s *CollectionStore, c Collection, def T) T {
	raw, err := s.blobs.Get(ctx, c.Key())
	if errors.Is(err, storage.ErrNotFound) {
		return def
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read collection, using empty default",
			applog.NewFields().WithCollection(c.String(), c.Key()).WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return def
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.ErrorContext(ctx, "Corrupt collection content, using empty default",
			applog.NewFields().WithCollection(c.String(), c.Key()).WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		return def
	}
	if isNil(out) {
		return def
	}
	return out
}

func (s *CollectionStore) save(ctx context.Context, c Collection, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return s.writeFailed(ctx, c, applog.OpSave, err)
	}
	if err := s.blobs.Put(ctx, c.Key(), string(data)); err != nil {
		return s.writeFailed(ctx, c, applog.OpSave, err)
	}
	s.logger.DebugContext(ctx, "Collection saved", applog.FieldCollection, c.String(), "bytes", len(data))
	return nil
}

func (s *CollectionStore) writeFailed(ctx context.Context, c Collection, op string, err error) error {
	s.logger.ErrorContext(ctx, "Failed to save collection",
		applog.NewFields().WithCollection(c.String(), c.Key()).WithOperation(op).WithError(err).ToSlice()...)
	return fmt.Errorf("%w: save %s: %v", ErrPersistence, c, err)
}

// nonNil makes empty collections serialize as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func isNil(v any) bool {
	switch x := v.(type) {
	case []core.Transaction:
		return x == nil
	case []core.Asset:
		return x == nil
	case []json.RawMessage:
		return x == nil
	case core.Lookups:
		return x == nil
	}
	return false
}
