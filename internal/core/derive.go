package core

import "strings"

// DeriveMonth returns the YYYY-MM prefix of a date, or "" when the date
// is empty.
func DeriveMonth(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// EffectiveType resolves a transaction's classification: a non-empty
// user_forced_type wins, then the stored type, then def.
func EffectiveType(t Transaction, def string) string {
	if forced := strings.TrimSpace(t.UserForcedType); forced != "" {
		return forced
	}
	if strings.TrimSpace(t.Type) != "" {
		return t.Type
	}
	return def
}

// Normalize recomputes the derived fields of a transaction. Month is never
// trusted from input.
func (t Transaction) Normalize() Transaction {
	t.Month = DeriveMonth(t.Date)
	t.Type = EffectiveType(t, t.Type)
	return t
}

// PrepareImported applies the import rules to a seed record: the forced
// type replaces type, and month follows date. A record without a date
// keeps the month it came with.
func PrepareImported(t Transaction) Transaction {
	t.Type = EffectiveType(t, t.Type)
	if t.Date != "" {
		t.Month = DeriveMonth(t.Date)
	}
	return t
}
