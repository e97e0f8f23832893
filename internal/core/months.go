package core

import "sort"

// AvailableMonths lists the distinct non-empty months of txs, most recent
// first.
func AvailableMonths(txs []Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	months := make([]string, 0, len(txs))
	for _, t := range txs {
		if t.Month == "" {
			continue
		}
		if _, ok := seen[t.Month]; ok {
			continue
		}
		seen[t.Month] = struct{}{}
		months = append(months, t.Month)
	}
	sort.Strings(months)
	for i, j := 0, len(months)-1; i < j; i, j = i+1, j-1 {
		months[i], months[j] = months[j], months[i]
	}
	return months
}

// InMonth returns the transactions booked in month (YYYY-MM).
func InMonth(txs []Transaction, month string) []Transaction {
	return Filter(txs, func(t Transaction) bool { return t.Month == month })
}
