package marketapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned for every 401 answer from the API.
	ErrUnauthorized = errors.New("market api: unauthorized")
	// ErrInvalidCredentials is returned by Login when the API rejects the credentials.
	ErrInvalidCredentials = errors.New("market api: invalid credentials")
)

// APIError is a non-2xx, non-401 answer from the API.
type APIError struct {
	StatusCode int
	// Status is the HTTP status text, e.g. "Bad Request".
	Status string
	// Message is the body's "error" field, empty when absent.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market api: %d %s", e.StatusCode, e.Reason())
}

// Reason returns the server-provided error message, falling back to the
// status text.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

func newAPIError(code int, payload json.RawMessage) *APIError {
	apiErr := &APIError{StatusCode: code, Status: http.StatusText(code)}
	if payload == nil {
		return apiErr
	}
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		switch v := body.Error.(type) {
		case string:
			apiErr.Message = v
		case map[string]any:
			if msg, ok := v["message"].(string); ok {
				apiErr.Message = msg
			}
		}
	}
	return apiErr
}

// ErrorReason extracts a user-facing reason from err: the API's message or
// status text, or the error text for transport failures.
func ErrorReason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
