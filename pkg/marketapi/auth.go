package marketapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.doRequest(ctx, http.MethodPost, "/admin/login", header, body)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	var out struct {
		Token string `json:"token"`
	}
	if resp.Payload == nil || json.Unmarshal(resp.Payload, &out) != nil || out.Token == "" {
		return "", errors.New("market api: login response carried no token")
	}
	return out.Token, nil
}
