// Package cli wires configuration, storage and the application state for
// the pftracker commands.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"pftracker/internal/adapters"
	"pftracker/internal/backend"
	"pftracker/internal/config"
	applog "pftracker/internal/log"
	"pftracker/internal/seed"
	"pftracker/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and makes it the
// slog default.
func SetupLogger(level string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App bundles what every command needs.
type App struct {
	Config *config.Config
	Logger *applog.Logger
	Store  *adapters.CollectionStore
	close  backend.CleanupFunc
}

// Bootstrap loads config and opens the configured backend.
func Bootstrap(ctx context.Context) (*App, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	logger := SetupLogger(cfg.LogLevel)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Store:  adapters.NewCollectionStore(res.Store, logger),
		close:  res.Cleanup,
	}, nil
}

// SeedLoader returns a loader reading SEED_FILE, or the embedded sample
// when unset.
func (a *App) SeedLoader() *seed.Loader {
	src := seed.EmbeddedSource()
	if a.Config.SeedFile != "" {
		src = seed.FileSource(a.Config.SeedFile)
	}
	return seed.NewLoader(a.Store, src, a.Config.IsDevelopment(), a.Logger)
}

// State returns a loaded facade over the store.
func (a *App) State(ctx context.Context, opts ...services.Option) *services.State {
	opts = append([]services.Option{services.WithLogger(a.Logger)}, opts...)
	state := services.NewState(a.Store, opts...)
	state.Load(ctx)
	return state
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
