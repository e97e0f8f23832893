package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"pftracker/internal/core"
)

func TestRenderSummary(t *testing.T) {
	o := core.MonthOverview{
		Month:       "2024-01",
		Count:       3,
		Expenses:    decimal.RequireFromString("120.5"),
		Investments: decimal.NewFromInt(5000),
		Income:      decimal.NewFromInt(85000),
		ByCategory: []core.CategoryAmount{
			{Name: "Grocery | Store", Amount: decimal.RequireFromString("120.5")},
		},
	}
	var b strings.Builder
	renderSummary(&b, o, "GBP")
	out := b.String()

	for _, want := range []string{
		"# Summary for 2024-01",
		"3 transactions.",
		"| Expenses | £120.50 |",
		"## Expenses by category",
		`| Grocery \| Store | £120.50 |`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmptyMonth(t *testing.T) {
	var b strings.Builder
	renderSummary(&b, core.MonthOverview{Month: "2024-05"}, "INR")
	if !strings.Contains(b.String(), "No transactions recorded.") {
		t.Errorf("unexpected output:\n%s", b.String())
	}
	if strings.Contains(b.String(), "by category") {
		t.Errorf("empty month should have no category table")
	}
}
