package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value that may arrive from the backend either as a JSON
// number or as a numeric string. Strings that fail to parse are kept as
// invalid amounts and render as "NaN".
type Amount struct {
	Value decimal.Decimal
	Valid bool
	raw   string
}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Valid: true}
}

// ParseAmount coerces a numeric string. No validation happens beyond parsing.
func ParseAmount(value string) Amount {
	trimmed := strings.TrimSpace(value)
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{raw: value}
	}
	return Amount{Value: d, Valid: true}
}

// Fixed renders the amount with the given number of decimals.
func (a Amount) Fixed(places int32) string {
	if !a.Valid {
		return "NaN"
	}
	return a.Value.StringFixed(places)
}

func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	*a = ParseAmount(string(data))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return json.Marshal(a.raw)
	}
	return []byte(a.Value.String()), nil
}
