package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pftracker/internal/adapters"
	"pftracker/internal/core"
	applog "pftracker/internal/log"
)

// ErrTransactionNotFound is returned when an edit names an unknown id.
var ErrTransactionNotFound = errors.New("transaction not found")

// Publisher announces committed collection changes to other processes.
type Publisher interface {
	PublishCollectionChanged(ctx context.Context, collection string, count int, version int64) error
}

// Change describes one committed mutation.
type Change struct {
	Collection adapters.Collection
	Count      int
	Version    int64
}

// State is the single owner of the in-memory collections. Views read
// through its accessors and mutate through its methods; every mutation is
// persisted before it becomes visible.
type State struct {
	store     *adapters.CollectionStore
	publisher Publisher
	logger    *applog.Logger
	now       func() time.Time

	mu           sync.RWMutex
	transactions []core.Transaction
	lookups      core.Lookups
	assets       []core.Asset
	liquidations []json.RawMessage
	version      int64

	subMu       sync.Mutex
	subscribers map[int]func(context.Context, Change)
	nextSub     int
}

type Option func(*State)

// WithPublisher sends a change message after each committed mutation.
func WithPublisher(p Publisher) Option {
	return func(s *State) { s.publisher = p }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithClock overrides the time source used for default purchase dates.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

func NewState(store *adapters.CollectionStore, opts ...Option) *State {
	s := &State{
		store:        store,
		now:          time.Now,
		transactions: []core.Transaction{},
		lookups:      core.Lookups{},
		assets:       []core.Asset{},
		liquidations: []json.RawMessage{},
		subscribers:  map[int]func(context.Context, Change){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(applog.ComponentState)
	return s
}

// Load replaces the in-memory snapshot with the persisted collections.
func (s *State) Load(ctx context.Context) {
	d := s.store.LoadAll(ctx)

	s.mu.Lock()
	s.transactions = d.Transactions
	s.lookups = d.Lookups
	s.assets = d.Assets
	s.liquidations = d.Liquidations
	s.version++
	version := s.version
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "State loaded",
		applog.FieldOperation, applog.OpLoad,
		"transactions", len(d.Transactions),
		"assets", len(d.Assets),
		"liquidations", len(d.Liquidations))

	for _, c := range adapters.AllCollections {
		s.notify(ctx, Change{Collection: c, Version: version, Count: s.count(c)})
	}
}

func (s *State) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *State) Lookups() core.Lookups {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookups.Clone()
}

func (s *State) Assets() []core.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Asset(nil), s.assets...)
}

func (s *State) Liquidations() []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]json.RawMessage, len(s.liquidations))
	for i, l := range s.liquidations {
		out[i] = append(json.RawMessage(nil), l...)
	}
	return out
}

// Version increases with every load and committed mutation.
func (s *State) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// AddAsset validates asset, fills its defaults and persists the assets
// collection. An absent quantity defaults to 1 and purchase date to today.
func (s *State) AddAsset(ctx context.Context, asset core.Asset) (core.Asset, error) {
	asset.Name = strings.TrimSpace(asset.Name)
	if !asset.Quantity.Valid {
		asset.Quantity = decimal.NewNullDecimal(decimal.NewFromInt(1))
	}
	if asset.PurchaseDate == "" {
		asset.PurchaseDate = s.now().Format(core.DateLayout)
	}
	if err := asset.Validate(); err != nil {
		return core.Asset{}, err
	}

	s.mu.Lock()
	existing := make(map[core.ID]bool, len(s.assets))
	for _, a := range s.assets {
		existing[a.ID] = true
	}
	if asset.ID == "" {
		asset.ID = newID(existing)
	} else if existing[asset.ID] {
		s.mu.Unlock()
		return core.Asset{}, &core.ValidationError{Field: "id", Err: core.ErrDuplicateID}
	}

	next := append(append(make([]core.Asset, 0, len(s.assets)+1), s.assets...), asset)
	if err := s.store.SaveAssets(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Asset{}, fmt.Errorf("add asset: %w", err)
	}
	s.assets = next
	change := s.commit(adapters.Assets, len(next))
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Asset added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldID, asset.ID,
		"name", asset.Name)
	s.changed(ctx, change)
	return asset, nil
}

// AddTransaction appends a new transaction. Month is derived from date and
// an untyped transaction is recorded as an expense.
func (s *State) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.EffectiveType(tx, core.TypeExpense)
	tx = tx.Normalize()

	s.mu.Lock()
	existing := transactionIDs(s.transactions)
	if tx.ID == "" {
		tx.ID = newID(existing)
	} else if existing[tx.ID] {
		s.mu.Unlock()
		return core.Transaction{}, &core.ValidationError{Field: "id", Err: core.ErrDuplicateID}
	}

	next := append(append(make([]core.Transaction, 0, len(s.transactions)+1), s.transactions...), tx)
	if err := s.store.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.transactions = next
	change := s.commit(adapters.Transactions, len(next))
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithTransaction(tx.ID.String(), tx.Month, tx.Category, tx.Amount.String()).
			ToSlice()...)
	s.changed(ctx, change)
	return tx, nil
}

// EditTransaction replaces the stored record with the same id by updated.
// Month and type are recomputed; nothing from the old record survives.
func (s *State) EditTransaction(ctx context.Context, updated core.Transaction) (core.Transaction, error) {
	if updated.ID == "" {
		return core.Transaction{}, &core.ValidationError{Field: "id", Err: core.ErrMissingID}
	}
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}
	updated = updated.Normalize()

	s.mu.Lock()
	idx := -1
	for i, t := range s.transactions {
		if t.ID == updated.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, updated.ID)
	}

	next := append([]core.Transaction(nil), s.transactions...)
	next[idx] = updated
	if err := s.store.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("edit transaction: %w", err)
	}
	s.transactions = next
	change := s.commit(adapters.Transactions, len(next))
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction updated",
		applog.NewFields().
			WithOperation(applog.OpUpdate).
			WithTransaction(updated.ID.String(), updated.Month, updated.Category, updated.Amount.String()).
			ToSlice()...)
	s.changed(ctx, change)
	return updated, nil
}

// ReplaceTransactions rewrites the whole transactions collection. It is
// the only way to remove records.
func (s *State) ReplaceTransactions(ctx context.Context, txs []core.Transaction) error {
	next := make([]core.Transaction, 0, len(txs))
	seen := make(map[core.ID]bool, len(txs))
	for i, t := range txs {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		t = t.Normalize()
		if t.ID == "" {
			t.ID = newID(seen)
		} else if seen[t.ID] {
			return fmt.Errorf("transaction %d: %w", i, &core.ValidationError{Field: "id", Err: core.ErrDuplicateID})
		}
		seen[t.ID] = true
		next = append(next, t)
	}

	s.mu.Lock()
	if err := s.store.SaveTransactions(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("replace transactions: %w", err)
	}
	s.transactions = next
	change := s.commit(adapters.Transactions, len(next))
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions replaced",
		applog.FieldOperation, applog.OpReplace,
		applog.FieldCount, len(next))
	s.changed(ctx, change)
	return nil
}

// Expenses returns the transactions shown in the expense view.
func (s *State) Expenses() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Expenses(s.transactions)
}

// SIPs returns the transactions shown in the SIP/investment view.
func (s *State) SIPs() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Investments(s.transactions)
}

func (s *State) AvailableMonths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.AvailableMonths(s.transactions)
}

func (s *State) TransactionsForMonth(month string) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.InMonth(s.transactions, month)
}

func (s *State) MonthSummary(month string) core.MonthOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(month, s.transactions)
}

func (s *State) AssetTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookups.AssetTypes()
}

// Subscribe registers fn to run after every committed change. The returned
// func removes the subscription.
func (s *State) Subscribe(fn func(context.Context, Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// commit bumps the version. Callers hold mu.
func (s *State) commit(c adapters.Collection, count int) Change {
	s.version++
	return Change{Collection: c, Count: count, Version: s.version}
}

func (s *State) count(c adapters.Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch c {
	case adapters.Transactions:
		return len(s.transactions)
	case adapters.Lookups:
		return len(s.lookups)
	case adapters.Assets:
		return len(s.assets)
	default:
		return len(s.liquidations)
	}
}

func (s *State) changed(ctx context.Context, change Change) {
	s.notify(ctx, change)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCollectionChanged(ctx, change.Collection.String(), change.Count, change.Version); err != nil {
		// The write is already committed.
		s.logger.ErrorContext(ctx, "Failed to publish change",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldCollection, change.Collection.String(),
			applog.FieldError, err)
	}
}

func (s *State) notify(ctx context.Context, change Change) {
	s.subMu.Lock()
	fns := make([]func(context.Context, Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ctx, change)
	}
}

func transactionIDs(txs []core.Transaction) map[core.ID]bool {
	ids := make(map[core.ID]bool, len(txs))
	for _, t := range txs {
		ids[t.ID] = true
	}
	return ids
}

// newID returns a random id not present in taken.
func newID(taken map[core.ID]bool) core.ID {
	for {
		id := core.ID(uuid.NewString())
		if !taken[id] {
			return id
		}
	}
}
