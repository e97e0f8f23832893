package cli

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"pftracker/internal/amqp"
	apphttp "pftracker/internal/http"
	applog "pftracker/internal/log"
	"pftracker/internal/seed"
	"pftracker/internal/services"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	port      string
	forceSeed bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON views over HTTP" }
func (*serveCmd) Usage() string {
	return `pftracker serve [-port <port>] [-force-seed]

  Loads sample data when allowed, then serves the tracker API until
  interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "Port to listen on. Defaults to PORT.")
	f.BoolVar(&c.forceSeed, "force-seed", false, "Load the seed dataset even outside development or over existing data.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(app *App) subcommands.ExitStatus {
		if err := c.run(ctx, app); err != nil {
			app.Logger.Error("Server stopped with error", applog.FieldError, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

func (c *serveCmd) run(ctx context.Context, app *App) error {
	cfg := app.Config
	port := cfg.Port
	if c.port != "" {
		port = c.port
	}

	app.SeedLoader().LoadSampleData(ctx, seed.Options{Force: c.forceSeed})

	var opts []services.Option
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, app.Logger)
		if err != nil {
			app.Logger.Warn("Failed to initialize AMQP client, continuing without change notifications", applog.FieldError, err)
		} else {
			defer client.Close()
			opts = append(opts, services.WithPublisher(client))
			app.Logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	state := app.State(ctx, opts...)

	srv := apphttp.NewServer(net.JoinHostPort("", port), state, apphttp.Options{
		Currency: cfg.Currency,
		CacheTTL: cfg.CacheTTL,
		Logger:   app.Logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Logger.Info("HTTP server listening",
			"addr", srv.Addr,
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldEnvironment, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.RunCacheCleanup(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
