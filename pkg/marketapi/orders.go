package marketapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/herevemarket/admin_console/internal/models"
)

// ListOrders fetches every order. The response may be a bare array or a
// {data: [...]} envelope.
func (c *Client) ListOrders(ctx context.Context, token string) ([]models.Order, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/orders", AuthHeaders(token), nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[models.Order](resp.Payload), nil
}

// DeleteOrder removes a single order.
func (c *Client) DeleteOrder(ctx context.Context, token, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/admin/api/orders/"+url.PathEscape(id), AuthHeaders(token), nil)
	return err
}
