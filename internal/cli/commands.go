package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// Register adds every pftracker command to c.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "")
	c.Register(&seedCmd{}, "data")
	c.Register(&generateCmd{}, "data")
	c.Register(&monthsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&watchCmd{}, "reports")
}

// withApp bootstraps the app, runs fn and closes the backend.
func withApp(ctx context.Context, fn func(*App) subcommands.ExitStatus) subcommands.ExitStatus {
	app, err := Bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("Failed to close backend", "error", err)
		}
	}()
	return fn(app)
}
