package marketapi

import (
	"bytes"
	"encoding/json"

	"github.com/herevemarket/admin_console/internal/models"
)

// unwrapList accepts either a bare JSON array or an envelope object carrying
// a "data" array. Anything else yields an empty list. Elements with fields of
// the wrong type are kept with those fields zeroed.
func unwrapList[T any](payload json.RawMessage) []T {
	out := []T{}
	items := listPayload(payload)
	if items == nil {
		return out
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(items, &raws); err != nil {
		return out
	}
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil && !models.IsTypeMismatch(err) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func listPayload(payload json.RawMessage) json.RawMessage {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil
	}
	switch payload[0] {
	case '[':
		return payload
	case '{':
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil
		}
		data := bytes.TrimSpace(env.Data)
		if len(data) > 0 && data[0] == '[' {
			return data
		}
	}
	return nil
}

// ProductPage is one page of the admin product listing.
type ProductPage struct {
	Products   []models.Product
	Pagination models.Pagination
}

func decodeProductPage(payload json.RawMessage) *ProductPage {
	page := &ProductPage{Products: unwrapList[models.Product](payload)}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Pagination models.Pagination `json:"pagination"`
		}
		_ = json.Unmarshal(trimmed, &env)
		page.Pagination = env.Pagination
	}
	return page
}

// decodeProduct returns nil when the payload is not a product object.
func decodeProduct(payload json.RawMessage) *models.Product {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var p models.Product
	if err := json.Unmarshal(trimmed, &p); err != nil && !models.IsTypeMismatch(err) {
		return nil
	}
	return &p
}
