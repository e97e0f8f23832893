package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"pftracker/internal/seed"
)

type seedCmd struct {
	force bool
	file  string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "populate an empty store with sample data" }
func (*seedCmd) Usage() string {
	return `pftracker seed [-force] [-file <dataset.json>]

  Writes the seed dataset into the store. Without -force nothing happens
  outside development or when any collection already holds data.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite existing data and ignore the environment.")
	f.StringVar(&c.file, "file", "", "Dataset to load. Defaults to SEED_FILE or the bundled sample.")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *App) subcommands.ExitStatus {
		if c.file != "" {
			app.Config.SeedFile = c.file
		}
		res := app.SeedLoader().LoadSampleData(ctx, seed.Options{Force: c.force})
		switch res.Outcome {
		case seed.OutcomeLoaded:
			fmt.Printf("loaded %d transactions, %d assets, %d liquidations, %d lookups\n",
				res.Transactions, res.Assets, res.Liquidations, res.Lookups)
		case seed.OutcomeFailed:
			fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
			return subcommands.ExitFailure
		default:
			fmt.Printf("nothing loaded: %s\n", res.Outcome)
		}
		return subcommands.ExitSuccess
	})
}
