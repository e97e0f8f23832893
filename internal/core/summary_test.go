package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	d := decimal.RequireFromString
	txs := []Transaction{
		{Month: "2024-01", Category: "Grocery Store", Amount: d("120.50")},
		{Month: "2024-01", Category: "Grocery Store", Amount: d("30")},
		{Month: "2024-01", Category: "Rent", Type: TypeExpense, Amount: d("900")},
		{Month: "2024-01", Category: "Axis SIP", Amount: d("5000")},
		{Month: "2024-01", Category: "Salary", Type: TypeIncome, Amount: d("80000")},
		{Month: "2024-02", Category: "Grocery Store", Amount: d("99")},
	}
	o := Summarize("2024-01", txs)
	if o.Count != 5 {
		t.Errorf("count = %d", o.Count)
	}
	if !o.Expenses.Equal(d("1050.5")) {
		t.Errorf("expenses = %s", o.Expenses)
	}
	if !o.Investments.Equal(d("5000")) {
		t.Errorf("investments = %s", o.Investments)
	}
	if !o.Income.Equal(d("80000")) {
		t.Errorf("income = %s", o.Income)
	}
	if len(o.ByCategory) != 2 || o.ByCategory[0].Name != "Rent" || !o.ByCategory[1].Amount.Equal(d("150.5")) {
		t.Errorf("unexpected categories: %+v", o.ByCategory)
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	o := Summarize("2030-01", nil)
	if o.Count != 0 || !o.Expenses.IsZero() || len(o.ByCategory) != 0 {
		t.Fatalf("unexpected overview: %+v", o)
	}
}
