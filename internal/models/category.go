package models

import (
	"bytes"
	"encoding/json"
)

// Category is a product category. Name is unique and doubles as the value
// used by selection widgets.
type Category struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// CategoryList holds the category names assigned to a product. The API sends
// either a single string or an array of strings.
type CategoryList []string

func (l *CategoryList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*l = nil
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != "" {
			*l = CategoryList{s}
		}
	case '[':
		var values []string
		if err := json.Unmarshal(b, &values); err != nil {
			return err
		}
		out := make(CategoryList, 0, len(values))
		for _, v := range values {
			if v != "" {
				out = append(out, v)
			}
		}
		*l = out
	}
	return nil
}
