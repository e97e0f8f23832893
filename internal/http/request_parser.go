package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pftracker/internal/core"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON object or a form-encoded body once and
// exposes its fields as sanitized strings.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like an object, otherwise
// as form values.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	switch {
	case trimmed == "":
		p.formData = url.Values{}
	case trimmed[0] == '{':
		p.jsonData = make(map[string]any)
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		p.err = dec.Decode(&p.jsonData)
	default:
		p.formData, p.err = url.ParseQuery(trimmed)
	}
	return p.err
}

// Get returns the sanitized value of key, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		return ok && v != nil
	}
	return p.formData != nil && p.formData.Has(key)
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseTransaction builds a transaction from a form body. Month is never
// read from input.
func parseTransaction(p *RequestBodyParser) (core.Transaction, error) {
	tx := core.Transaction{
		ID:             core.ID(p.Get("id")),
		Date:           p.Get("date"),
		Category:       p.Get("category"),
		Subcategory:    p.Get("subcategory"),
		Notes:          p.Get("notes"),
		Type:           strings.ToLower(p.Get("type")),
		UserForcedType: strings.ToLower(p.Get("user_forced_type")),
	}
	if raw := p.Get("amount"); raw != "" {
		amount, err := core.ParseAmount(raw)
		if err != nil {
			return core.Transaction{}, &core.ValidationError{Field: "amount", Err: err}
		}
		tx.Amount = amount
	}
	return tx, nil
}

// parseAsset builds an asset from a form body. Empty numeric fields stay
// absent so the facade can tell "not sent" from zero.
func parseAsset(p *RequestBodyParser) (core.Asset, error) {
	asset := core.Asset{
		ID:           core.ID(p.Get("id")),
		Name:         p.Get("name"),
		Type:         p.Get("type"),
		PurchaseDate: p.Get("purchase_date"),
	}
	var err error
	if asset.PurchaseValue, err = optionalDecimal(p.Get("purchase_value")); err != nil {
		return core.Asset{}, &core.ValidationError{Field: "purchase_value", Err: err}
	}
	if asset.Quantity, err = optionalDecimal(p.Get("quantity")); err != nil {
		if errors.Is(err, core.ErrNegativeValue) || errors.Is(err, core.ErrInvalidAmount) {
			err = core.ErrInvalidQuantity
		}
		return core.Asset{}, &core.ValidationError{Field: "quantity", Err: err}
	}
	return asset, nil
}

func optionalDecimal(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := core.ParseAmount(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// decodeBody parses the request body or writes a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(fmt.Sprintf("malformed request body: %v", err)).Write(w)
		return nil, false
	}
	return p, true
}
