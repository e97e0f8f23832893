package core

import "strings"

// Category fragments that mark a transaction for the expense and SIP views.
// Matching is a case-insensitive substring test.
var (
	ExpenseCategoryPatterns    = []string{"grocer", "tax", "utility", "credit card"}
	InvestmentCategoryPatterns = []string{"sip"}
)

// MatchesCategory reports whether category contains any of the patterns.
func MatchesCategory(category string, patterns []string) bool {
	c := strings.ToLower(category)
	for _, p := range patterns {
		if p != "" && strings.Contains(c, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// IsExpense reports whether t belongs in the expense view.
func IsExpense(t Transaction) bool {
	return EffectiveType(t, "") == TypeExpense || MatchesCategory(t.Category, ExpenseCategoryPatterns)
}

// IsInvestment reports whether t belongs in the SIP/investment view.
func IsInvestment(t Transaction) bool {
	return EffectiveType(t, "") == TypeInvestment || MatchesCategory(t.Category, InvestmentCategoryPatterns)
}

// Filter returns the transactions for which keep returns true, preserving
// order.
func Filter(txs []Transaction, keep func(Transaction) bool) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func Expenses(txs []Transaction) []Transaction {
	return Filter(txs, IsExpense)
}

func Investments(txs []Transaction) []Transaction {
	return Filter(txs, IsInvestment)
}
