// Package seed populates an empty store from a bundled or file dataset.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"pftracker/assets"
	"pftracker/internal/adapters"
	"pftracker/internal/core"
	applog "pftracker/internal/log"
)

// Outcome describes what a load attempt did.
type Outcome string

const (
	OutcomeSkippedEnvironment Outcome = "skipped_environment"
	OutcomeSkippedExisting    Outcome = "skipped_existing"
	OutcomeLoaded             Outcome = "loaded"
	OutcomeFailed             Outcome = "failed"
)

// Options controls a load. Force ignores both the environment gate and
// existing data.
type Options struct {
	Force bool
}

// Result reports a load attempt. Err is set only when Outcome is failed.
type Result struct {
	Outcome      Outcome
	Transactions int
	Assets       int
	Liquidations int
	Lookups      int
	Err          error
}

// Source returns the raw seed dataset.
type Source func(ctx context.Context) ([]byte, error)

// EmbeddedSource reads the sample dataset compiled into the binary.
func EmbeddedSource() Source {
	return func(context.Context) ([]byte, error) {
		return assets.SampleData, nil
	}
}

// FileSource reads a dataset from path on every load.
func FileSource(path string) Source {
	return func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		return data, nil
	}
}

// Loader writes the seed dataset through the collection store.
type Loader struct {
	store       *adapters.CollectionStore
	source      Source
	development bool
	logger      *applog.Logger
}

// NewLoader creates a loader. development enables unforced loads.
func NewLoader(store *adapters.CollectionStore, source Source, development bool, logger *applog.Logger) *Loader {
	if source == nil {
		source = EmbeddedSource()
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Loader{
		store:       store,
		source:      source,
		development: development,
		logger:      logger.WithComponent(applog.ComponentSeed),
	}
}

// LoadSampleData populates the store unless the environment or existing
// data forbids it. It never panics and never returns an error; failures
// are logged and reported in the Result.
func (l *Loader) LoadSampleData(ctx context.Context, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Outcome: OutcomeFailed, Err: fmt.Errorf("seed panic: %v", r)}
		}
		l.report(ctx, res)
	}()

	if !l.development && !opts.Force {
		return Result{Outcome: OutcomeSkippedEnvironment}
	}
	if !opts.Force {
		exists, err := l.store.HasAny(ctx)
		if err != nil {
			return Result{Outcome: OutcomeFailed, Err: err}
		}
		if exists {
			return Result{Outcome: OutcomeSkippedExisting}
		}
	}

	raw, err := l.source(ctx)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	d, err := Parse(raw)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	if err := l.store.SaveAll(ctx, d); err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	return Result{
		Outcome:      OutcomeLoaded,
		Transactions: len(d.Transactions),
		Assets:       len(d.Assets),
		Liquidations: len(d.Liquidations),
		Lookups:      len(d.Lookups),
	}
}

// Parse decodes a seed dataset and applies the import rules. Missing
// sections become empty collections.
func Parse(raw []byte) (core.Dataset, error) {
	var d core.Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return core.Dataset{}, fmt.Errorf("decode seed dataset: %w", err)
	}
	txs := make([]core.Transaction, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		t = core.PrepareImported(t)
		if t.ID == "" {
			t.ID = core.ID(uuid.NewString())
		}
		txs = append(txs, t)
	}
	d.Transactions = txs
	if d.Lookups == nil {
		d.Lookups = core.Lookups{}
	}
	if d.Assets == nil {
		d.Assets = []core.Asset{}
	}
	if d.Liquidations == nil {
		d.Liquidations = []json.RawMessage{}
	}
	return d, nil
}

func (l *Loader) report(ctx context.Context, res Result) {
	switch res.Outcome {
	case OutcomeSkippedEnvironment:
		l.logger.InfoContext(ctx, "Sample data skipped: not a development environment", applog.FieldOutcome, res.Outcome)
	case OutcomeSkippedExisting:
		l.logger.InfoContext(ctx, "Sample data skipped: store already holds data", applog.FieldOutcome, res.Outcome)
	case OutcomeLoaded:
		l.logger.InfoContext(ctx, "Sample data loaded",
			applog.FieldOutcome, res.Outcome,
			"transactions", res.Transactions,
			"assets", res.Assets,
			"liquidations", res.Liquidations,
			"lookups", res.Lookups)
	default:
		l.logger.ErrorContext(ctx, "Sample data load failed",
			applog.FieldOutcome, res.Outcome,
			applog.FieldError, res.Err)
	}
}
