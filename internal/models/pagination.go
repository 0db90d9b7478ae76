package models

import (
	"encoding/json"
	"math"
)

// PageSize is the fixed number of products requested per page.
const PageSize = 20

// Pagination mirrors the pagination object of a product list response. A nil
// field means the server omitted it or sent something that is not a number.
type Pagination struct {
	Page       *int `json:"page,omitempty"`
	TotalPages *int `json:"totalPages,omitempty"`
	Total      *int `json:"total,omitempty"`
}

func (p *Pagination) UnmarshalJSON(b []byte) error {
	*p = Pagination{}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	p.Page = wholeNumber(raw["page"], 1)
	p.TotalPages = wholeNumber(raw["totalPages"], 1)
	p.Total = wholeNumber(raw["total"], 0)
	return nil
}

// wholeNumber returns v when it is an integer in [floor, MaxInt32], else nil.
func wholeNumber(v any, floor float64) *int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < floor || f > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}
