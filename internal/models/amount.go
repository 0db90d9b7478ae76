package models

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value decoded from the market API. It is only valid
// when the JSON value was a number; strings, null and objects are kept as
// invalid so the console can render them as "-".
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a valid Amount for f.
func NewAmount(f float64) Amount {
	return Amount{Value: decimal.NewFromFloat(f), Valid: true}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = Amount{}
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return nil
	}
	*a = Amount{Value: d, Valid: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// String returns the plain decimal representation, or "-" when invalid.
func (a Amount) String() string {
	if !a.Valid {
		return "-"
	}
	return a.Value.String()
}
