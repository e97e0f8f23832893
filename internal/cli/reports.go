package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type monthsCmd struct{}

func (*monthsCmd) Name() string     { return "months" }
func (*monthsCmd) Synopsis() string { return "list months that have transactions" }
func (*monthsCmd) Usage() string {
	return `pftracker months

  Prints every month with at least one transaction, most recent first.
`
}

func (*monthsCmd) SetFlags(*flag.FlagSet) {}

func (*monthsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *App) subcommands.ExitStatus {
		for _, m := range app.State(ctx).AvailableMonths() {
			fmt.Println(m)
		}
		return subcommands.ExitSuccess
	})
}

type summaryCmd struct {
	month string
	raw   bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display income, expenses and SIPs for a month" }
func (*summaryCmd) Usage() string {
	return `pftracker summary [-m <YYYY-MM>] [-raw]

  Displays the totals of a month. Defaults to the most recent month with
  transactions.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month to summarize (YYYY-MM).")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(app *App) subcommands.ExitStatus {
		state := app.State(ctx)
		month := c.month
		if month == "" {
			months := state.AvailableMonths()
			if len(months) == 0 {
				fmt.Fprintln(os.Stderr, "No transactions recorded.")
				return subcommands.ExitSuccess
			}
			month = months[0]
		}

		var b strings.Builder
		renderSummary(&b, state.MonthSummary(month), app.Config.Currency)
		if c.raw || !isTerminal(os.Stdout) {
			fmt.Print(b.String())
		} else {
			printMarkdown(b.String())
		}
		return subcommands.ExitSuccess
	})
}
