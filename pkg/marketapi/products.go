package marketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/herevemarket/admin_console/internal/models"
)

// ProductQuery selects one page of the admin product list.
type ProductQuery struct {
	Page     int
	Limit    int
	Category string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = models.PageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// ListCategories fetches the public category list. No token is sent.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[models.Category](resp.Payload), nil
}

// ListProducts fetches one page of products together with the raw pagination.
func (c *Client) ListProducts(ctx context.Context, token string, q ProductQuery) (*ProductPage, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/admin/api/products?"+q.values().Encode(), AuthHeaders(token), nil)
	if err != nil {
		return nil, err
	}
	return decodeProductPage(resp.Payload), nil
}

// CreateProduct posts a multipart product form.
func (c *Client) CreateProduct(ctx context.Context, token string, form ProductForm) error {
	return c.sendForm(ctx, http.MethodPost, "/admin/api/products", token, form)
}

// UpdateProduct replaces a product with a multipart product form.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, form ProductForm) error {
	return c.sendForm(ctx, http.MethodPut, "/admin/api/products/"+url.PathEscape(id), token, form)
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, form ProductForm) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode product form: %w", err)
	}
	header := bearerOnly(token)
	header.Set("Content-Type", contentType)
	_, err = c.doRequest(ctx, method, path, header, body)
	return err
}

// PatchProduct sends a partial JSON update and returns the server's product
// representation, or nil when the body did not carry one.
func (c *Client) PatchProduct(ctx context.Context, token, id string, fields map[string]any) (*models.Product, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := c.doRequest(ctx, http.MethodPut, "/admin/api/products/"+url.PathEscape(id), AuthHeaders(token), body)
	if err != nil {
		return nil, err
	}
	return decodeProduct(resp.Payload), nil
}

// DeleteProduct soft-deletes a product (the API marks it inactive).
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/admin/api/products/"+url.PathEscape(id), AuthHeaders(token), nil)
	return err
}
