package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"pftracker/internal/core"
)

// printMarkdown renders md for the terminal, falling back to plain text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// renderSummary writes a month overview as a markdown report.
func renderSummary(w io.Writer, o core.MonthOverview, currency string) {
	fmt.Fprintf(w, "# Summary for %s\n\n", o.Month)
	if o.Count == 0 {
		fmt.Fprintln(w, "No transactions recorded.")
		return
	}
	fmt.Fprintf(w, "%d transactions.\n\n", o.Count)
	fmt.Fprintln(w, "| | Amount |")
	fmt.Fprintln(w, "|---|---:|")
	fmt.Fprintf(w, "| Income | %s |\n", core.FormatAmount(o.Income, currency))
	fmt.Fprintf(w, "| Expenses | %s |\n", core.FormatAmount(o.Expenses, currency))
	fmt.Fprintf(w, "| SIPs and investments | %s |\n", core.FormatAmount(o.Investments, currency))

	if len(o.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(w, "\n## Expenses by category")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Category | Amount |")
	fmt.Fprintln(w, "|---|---:|")
	for _, c := range o.ByCategory {
		fmt.Fprintf(w, "| %s | %s |\n", escapeCell(c.Name), core.FormatAmount(c.Amount, currency))
	}
}

func escapeCell(s string) string {
	if s == "" {
		return "(none)"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
