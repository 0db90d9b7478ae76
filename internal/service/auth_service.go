package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/pkg/marketapi"
)

// ErrInvalidCredentials is returned for a rejected or incomplete login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginAPI exchanges admin credentials for a token.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthService logs admins in against the market API.
type AuthService struct {
	api LoginAPI
}

// NewAuthService constructs an AuthService.
func NewAuthService(api LoginAPI) *AuthService {
	return &AuthService{api: api}
}

// Login returns the bearer token for the credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", ErrInvalidCredentials
	}

	log.Debug().Str("email", email).Msg("Login attempt")

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, marketapi.ErrInvalidCredentials) {
			log.Warn().Str("email", email).Msg("Login rejected")
			return "", ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Login request failed")
		return "", err
	}

	log.Info().Str("email", email).Msg("Login successful")
	return token, nil
}
