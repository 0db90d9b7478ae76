// Package session keeps the admin bearer token and the console session id in
// cookies and turns API 401 answers into a logout.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/pkg/marketapi"
)

const (
	// TokenCookie is the fixed key the admin token is stored under.
	TokenCookie = "admin_token"
	// IDCookie keys the per-browser view state.
	IDCookie = "console_session"

	CookiePath  = "/admin"
	LoginPath   = "/admin/login"
	LandingPath = "/admin/products"

	idCookieMaxAge = 7 * 24 * 3600
)

// StateDropper removes all view state of a session.
type StateDropper interface {
	Delete(ctx context.Context, sessionID string) error
}

// Manager reads and writes the console cookies.
type Manager struct {
	secure bool
	states StateDropper
}

// NewManager constructs a Manager. states may be nil.
func NewManager(secure bool, states StateDropper) *Manager {
	return &Manager{secure: secure, states: states}
}

// Claims are the token fields the console displays. They are decoded without
// signature verification.
type Claims struct {
	Email     string
	ExpiresAt time.Time
}

// ParseClaims decodes the token payload. ok is false when the token is not a
// JWT.
func ParseClaims(token string) (Claims, bool) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}
	var out Claims
	out.Email, _ = mc["email"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}

// Token returns the stored token, or "" when absent.
func (m *Manager) Token(c *gin.Context) string {
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// SetToken stores token. An empty token is ignored. The cookie expires with
// the token when the token carries an exp claim.
func (m *Manager) SetToken(c *gin.Context, token string) {
	if token == "" {
		return
	}
	maxAge := 0
	if claims, ok := ParseClaims(token); ok && !claims.ExpiresAt.IsZero() {
		if remaining := int(time.Until(claims.ExpiresAt).Seconds()); remaining > 0 {
			maxAge = remaining
		}
	}
	m.setCookie(c, TokenCookie, token, maxAge)
}

// ClearToken removes the token cookie.
func (m *Manager) ClearToken(c *gin.Context) {
	m.setCookie(c, TokenCookie, "", -1)
}

// ID returns the console session id, issuing a new one when absent.
func (m *Manager) ID(c *gin.Context) string {
	if id, ok := c.Get(IDCookie); ok {
		return id.(string)
	}
	id, err := c.Cookie(IDCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		m.setCookie(c, IDCookie, id, idCookieMaxAge)
	}
	c.Set(IDCookie, id)
	return id
}

// Logout clears the token and drops the session's view state.
func (m *Manager) Logout(c *gin.Context) {
	m.ClearToken(c)
	if m.states == nil {
		return
	}
	sessionID := m.ID(c)
	if err := m.states.Delete(c.Request.Context(), sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to drop console state")
	}
}

// HandleUnauthorized logs the session out and redirects to the login page
// when err is an API 401. It reports whether it did so.
func (m *Manager) HandleUnauthorized(c *gin.Context, err error) bool {
	if !errors.Is(err, marketapi.ErrUnauthorized) {
		return false
	}
	m.Logout(c)
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
	return true
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, CookiePath, "", m.secure, true)
}
