package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// leadingNumber matches the longest decimal literal at the start of a string.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParsePrice reads the number at the start of raw, ignoring leading
// whitespace and anything after the number, so "24.90abc" is 24.9.
// ok is false when raw does not start with a number.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return decimal.Decimal{}, false
	}

	mantissa, exponent := m, ""
	if i := strings.IndexAny(m, "eE"); i >= 0 {
		mantissa, exponent = m[:i], m[i:]
	}
	sign := ""
	if mantissa[0] == '+' || mantissa[0] == '-' {
		if mantissa[0] == '-' {
			sign = "-"
		}
		mantissa = mantissa[1:]
	}
	mantissa = strings.TrimSuffix(mantissa, ".")
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}

	d, err := decimal.NewFromString(sign + mantissa + exponent)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseStock reads raw as a whole-string number. Blank input is zero. ok is
// false for text that is not a number, infinities and negative values.
func ParseStock(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) || n < 0 {
		return 0, false
	}
	return n, true
}

// NormalizeText trims surrounding whitespace from a free text field.
func NormalizeText(raw string) string {
	return strings.TrimSpace(raw)
}

// NormalizeCategories drops empty names.
func NormalizeCategories(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
