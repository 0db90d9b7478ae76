package service

import (
	"errors"

	"github.com/herevemarket/admin_console/pkg/marketapi"
)

var (
	// ErrUnauthorized is returned whenever the API rejected the session token.
	// Handlers must log the session out when they see it.
	ErrUnauthorized = marketapi.ErrUnauthorized
	// ErrNotFound is returned for identifiers that are not part of the loaded view.
	ErrNotFound = errors.New("not found")
)

// IsUnauthorized reports whether err is, or wraps, ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
