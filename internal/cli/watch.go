package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"pftracker/internal/amqp"
	applog "pftracker/internal/log"
)

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "print collection change notifications" }
func (*watchCmd) Usage() string {
	return `pftracker watch

  Follows the change queue configured by AMQP_URL, AMQP_EXCHANGE and
  AMQP_QUEUE and prints one line per committed change.
`
}

func (*watchCmd) SetFlags(*flag.FlagSet) {}

func (*watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(app *App) subcommands.ExitStatus {
		cfg := app.Config
		if cfg.AMQPURL == "" {
			fmt.Fprintln(os.Stderr, "Error: AMQP_URL is not set")
			return subcommands.ExitUsageError
		}
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, app.Logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer client.Close()

		err = client.ConsumeChanges(ctx, func(_ context.Context, msg *amqp.CollectionChangedMessage) error {
			fmt.Printf("%s  %-13s  %5d records  version %d\n",
				msg.Timestamp.Local().Format(time.DateTime), msg.Collection, msg.Count, msg.Version)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Error("Watch stopped", applog.FieldError, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}
