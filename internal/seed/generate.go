package seed

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"pftracker/internal/core"
)

// GenerateOptions configures a synthetic dataset.
type GenerateOptions struct {
	Transactions int
	Assets       int
	// Seed makes the output reproducible; equal seeds give equal datasets.
	Seed int64
	// Until is the latest transaction date. Zero means today.
	Until time.Time
	// Months is how far back transactions reach.
	Months int
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Transactions: 120, Assets: 6, Months: 6}
}

var generatedCategories = []struct {
	name string
	typ  string
	min  float64
	max  float64
}{
	{"Grocery Store", "", 300, 4500},
	{"Utility Bills", "", 400, 3000},
	{"Credit Card Payment", "", 2000, 30000},
	{"Property Tax", core.TypeExpense, 1000, 12000},
	{"Dining", core.TypeExpense, 250, 3500},
	{"Travel", core.TypeExpense, 500, 18000},
	{"Axis SIP", "", 1000, 10000},
	{"Index Fund", core.TypeInvestment, 2000, 15000},
	{"Salary", core.TypeIncome, 60000, 120000},
	{"Freelance", core.TypeIncome, 5000, 40000},
}

// Generate builds a fake dataset shaped like real usage: every transaction
// has a derived month and lookups carry the default asset types.
func Generate(opts GenerateOptions) core.Dataset {
	if opts.Months <= 0 {
		opts.Months = 1
	}
	until := opts.Until
	if until.IsZero() {
		until = time.Now()
	}
	until = until.Truncate(24 * time.Hour)
	from := until.AddDate(0, -opts.Months, 0)

	f := gofakeit.New(opts.Seed)

	txs := make([]core.Transaction, 0, opts.Transactions)
	categories := make([]string, 0, len(generatedCategories))
	for _, c := range generatedCategories {
		categories = append(categories, c.name)
	}
	for i := 0; i < opts.Transactions; i++ {
		c := generatedCategories[f.Number(0, len(generatedCategories)-1)]
		t := core.Transaction{
			ID:       core.ID(f.UUID()),
			Date:     f.DateRange(from, until).Format(core.DateLayout),
			Category: c.name,
			Amount:   decimal.NewFromFloat(f.Price(c.min, c.max)).Round(2),
			Type:     c.typ,
		}
		if f.Number(1, 4) == 1 {
			t.Notes = f.Sentence(4)
		}
		txs = append(txs, t.Normalize())
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date < txs[j].Date })

	assetsOut := make([]core.Asset, 0, opts.Assets)
	for i := 0; i < opts.Assets; i++ {
		typ := f.RandomString(core.DefaultAssetTypes)
		qty := decimal.NewFromInt(1)
		if typ == "SIP" || typ == "Stock" || typ == "Gold" {
			qty = decimal.NewFromFloat(f.Float64Range(1, 500)).Round(3)
		}
		assetsOut = append(assetsOut, core.Asset{
			ID:            core.ID(f.UUID()),
			Name:          f.Company() + " " + typ,
			Type:          typ,
			Quantity:      decimal.NewNullDecimal(qty),
			PurchaseValue: decimal.NewNullDecimal(decimal.NewFromFloat(f.Price(1000, 500000)).Round(2)),
			PurchaseDate:  f.DateRange(from.AddDate(-2, 0, 0), until).Format(core.DateLayout),
		})
	}

	return core.Dataset{
		Transactions: txs,
		Lookups: core.Lookups{
			core.LookupAssetTypes: append([]string(nil), core.DefaultAssetTypes...),
			"categories":          categories,
		},
		Assets:       assetsOut,
		Liquidations: []json.RawMessage{},
	}
}
