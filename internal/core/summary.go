package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthOverview is a compact summary for a specific YYYY-MM month.
type MonthOverview struct {
	Month       string           `json:"month"`
	Count       int              `json:"count"`
	Expenses    decimal.Decimal  `json:"expenses"`
	Investments decimal.Decimal  `json:"investments"`
	Income      decimal.Decimal  `json:"income"`
	ByCategory  []CategoryAmount `json:"by_category"`
}

// Summarize aggregates the transactions of one month. Expense and
// investment totals use the display predicates, so a record matching both
// counts in both. ByCategory covers expenses only, largest first.
func Summarize(month string, txs []Transaction) MonthOverview {
	overview := MonthOverview{
		Month:       month,
		Expenses:    decimal.Zero,
		Investments: decimal.Zero,
		Income:      decimal.Zero,
	}
	byCategory := map[string]decimal.Decimal{}
	for _, t := range InMonth(txs, month) {
		overview.Count++
		if IsExpense(t) {
			overview.Expenses = overview.Expenses.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
		if IsInvestment(t) {
			overview.Investments = overview.Investments.Add(t.Amount)
		}
		if EffectiveType(t, "") == TypeIncome {
			overview.Income = overview.Income.Add(t.Amount)
		}
	}
	for name, amount := range byCategory {
		overview.ByCategory = append(overview.ByCategory, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(overview.ByCategory, func(i, j int) bool {
		a, b := overview.ByCategory[i], overview.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
	return overview
}
