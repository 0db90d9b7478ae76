package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxResponseSize is the maximum allowed response body size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds market API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client is the HTTP client for the market REST API used by the admin console.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a new market API client with sane defaults.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		debug:      cfg.Debug,
	}
}

// AuthHeaders returns the JSON content type and the bearer authorization for
// token. The token may be empty; the API then answers 401.
func AuthHeaders(token string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+token)
	return h
}

// bearerOnly is used for multipart bodies, where the content type carries the
// boundary and must not be overridden.
func bearerOnly(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// response is a fully read API response. Payload is nil when the body is not
// valid JSON.
type response struct {
	StatusCode int
	Body       []byte
	Payload    json.RawMessage
}

// doRequest performs the HTTP call and classifies the outcome: 401 becomes
// ErrUnauthorized, other non-2xx statuses become *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, header http.Header, body []byte) (*response, error) {
	endpoint := c.baseURL + path

	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", endpoint)
		if isJSON(header) && len(body) > 0 {
			ev = ev.RawJSON("request", sanitizeForLog(body))
		} else if len(body) > 0 {
			ev = ev.Int("request_bytes", len(body))
		}
		ev.Msg("[MARKETAPI] Outgoing request")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Limit response body size to prevent OOM
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	out := &response{StatusCode: resp.StatusCode, Body: respBody}
	if json.Valid(respBody) {
		out.Payload = respBody
	}

	if c.debug {
		ev := log.Debug().Str("endpoint", path).Int("status_code", resp.StatusCode)
		if out.Payload != nil {
			ev = ev.RawJSON("response", sanitizeForLog(out.Payload))
		}
		ev.Msg("[MARKETAPI] Incoming response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return out, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, newAPIError(resp.StatusCode, out.Payload)
	}
	return out, nil
}

func isJSON(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "application/json")
}

// sanitizeForLog masks sensitive fields anywhere in a JSON document.
func sanitizeForLog(data []byte) []byte {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []byte(`{"_error": "failed to parse for sanitization"}`)
	}
	sanitized, err := json.Marshal(maskValue(doc))
	if err != nil {
		return []byte(`{"_error": "failed to marshal sanitized data"}`)
	}
	return sanitized
}

var sensitiveFields = []string{"password", "token", "authorization", "secret"}

func maskValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for key, value := range t {
			keyLower := strings.ToLower(key)
			masked := false
			for _, sensitive := range sensitiveFields {
				if strings.Contains(keyLower, sensitive) {
					t[key] = "***MASKED***"
					masked = true
					break
				}
			}
			if !masked {
				t[key] = maskValue(value)
			}
		}
		return t
	case []any:
		for i := range t {
			t[i] = maskValue(t[i])
		}
		return t
	default:
		return v
	}
}
