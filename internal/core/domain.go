package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by every stored date.
const DateLayout = "2006-01-02"

const (
	TypeExpense    = "expense"
	TypeInvestment = "investment"
	TypeIncome     = "income"
)

// LookupAssetTypes is the lookups key holding the asset type taxonomy.
const LookupAssetTypes = "asset_types"

// DefaultAssetTypes is used when the lookups carry no asset type list.
var DefaultAssetTypes = []string{"Bank Account", "SIP", "Stock", "Gold", "Property"}

type (
	// ID identifies a transaction or an asset. Stored data may carry
	// numeric identifiers, so it decodes from both JSON strings and numbers.
	ID string

	Transaction struct {
		ID             ID              `json:"id"`
		Date           string          `json:"date"`
		Month          string          `json:"month"`
		Category       string          `json:"category"`
		Subcategory    string          `json:"subcategory,omitempty"`
		Amount         decimal.Decimal `json:"amount"`
		Notes          string          `json:"notes,omitempty"`
		Type           string          `json:"type,omitempty"`
		UserForcedType string          `json:"user_forced_type,omitempty"`
	}

	Asset struct {
		ID            ID                  `json:"id"`
		Name          string              `json:"name"`
		Type          string              `json:"type"`
		Quantity      decimal.NullDecimal `json:"quantity"`
		PurchaseValue decimal.NullDecimal `json:"purchase_value"`
		PurchaseDate  string              `json:"purchase_date"`
	}

	// Lookups maps a taxonomy name to its entries.
	Lookups map[string][]string

	// Dataset groups the four persisted collections. It is also the shape
	// of seed files, where every section is optional.
	Dataset struct {
		Transactions []Transaction     `json:"transactions,omitempty"`
		Lookups      Lookups           `json:"lookups,omitempty"`
		Assets       []Asset           `json:"assets,omitempty"`
		Liquidations []json.RawMessage `json:"liquidations,omitempty"`
	}
)

var (
	ErrMissingID       = errors.New("missing id")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrEmptyName       = errors.New("empty name")
	ErrMissingValue    = errors.New("missing value")
	ErrNegativeValue   = errors.New("value must not be negative")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidDate     = errors.New("invalid date")
)

// ValidationError reports a mandatory field that is missing or malformed.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*id = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Validate checks the fields a transaction form must get right. Category
// and type are free-form and never rejected.
func (t Transaction) Validate() error {
	if t.Date != "" {
		if _, err := ParseDate(t.Date); err != nil {
			return invalid("date", err)
		}
	}
	if t.Amount.IsNegative() {
		return invalid("amount", ErrNegativeValue)
	}
	return nil
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !a.PurchaseValue.Valid {
		return invalid("purchase_value", ErrMissingValue)
	}
	if a.PurchaseValue.Decimal.IsNegative() {
		return invalid("purchase_value", ErrNegativeValue)
	}
	if a.Quantity.Valid && !a.Quantity.Decimal.IsPositive() {
		return invalid("quantity", ErrInvalidQuantity)
	}
	if a.PurchaseDate != "" {
		if _, err := ParseDate(a.PurchaseDate); err != nil {
			return invalid("purchase_date", err)
		}
	}
	return nil
}

// AssetTypes returns the asset type taxonomy, falling back to the defaults.
func (l Lookups) AssetTypes() []string {
	if types := l[LookupAssetTypes]; len(types) > 0 {
		return append([]string(nil), types...)
	}
	return append([]string(nil), DefaultAssetTypes...)
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (l Lookups) Clone() Lookups {
	out := make(Lookups, len(l))
	for k, v := range l {
		out[k] = append([]string(nil), v...)
	}
	return out
}
