package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Product is a catalogue entry as returned by the admin products API.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Price       Amount       `json:"price"`
	Brand       string       `json:"brand"`
	Barcode     string       `json:"barcode"`
	Description string       `json:"description"`
	Stock       StockValue   `json:"stock"`
	Category    CategoryList `json:"category"`
	IsCampaign  bool         `json:"isCampaign"`
	IsActive    bool         `json:"isActive"`
	ImageURL    string       `json:"imageUrl"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil && !IsTypeMismatch(err) {
		return err
	}
	*p = Product(raw.alias)
	if raw.MongoID != "" {
		p.ID = raw.MongoID
	}
	return nil
}

// OutOfStock reports whether the stock is exactly zero.
func (p Product) OutOfStock() bool {
	n, ok := p.Stock.Number()
	return ok && n == 0
}

// StockValue keeps the stock as text so unsaved table edits can be held on
// the product exactly as typed.
type StockValue string

// NewStock returns the StockValue for n.
func NewStock(n int) StockValue {
	return StockValue(strconv.Itoa(n))
}

// Number parses the stock; ok is false for empty or non-finite text.
func (s StockValue) Number() (float64, bool) {
	text := strings.TrimSpace(string(s))
	if text == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// Input returns the value shown in the stock input, empty when not numeric.
func (s StockValue) Input() string {
	n, ok := s.Number()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (s *StockValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*s = StockValue(text)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*s = StockValue(b)
	default:
		*s = ""
	}
	return nil
}

func (s StockValue) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if n, ok := s.Number(); ok {
		return []byte(strconv.FormatFloat(n, 'f', -1, 64)), nil
	}
	return json.Marshal(string(s))
}
