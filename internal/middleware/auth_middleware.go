package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herevemarket/admin_console/internal/session"
)

// AuthMiddleware gates console pages on the presence of the admin token.
type AuthMiddleware struct {
	sessions *session.Manager
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth redirects to the login page and stops the chain when no token
// is stored. The token is not validated here; the API does that.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessions.Token(c)
		if token == "" {
			c.Redirect(http.StatusSeeOther, session.LoginPath)
			c.Abort()
			return
		}
		c.Set("token", token)
		c.Set("session_id", m.sessions.ID(c))
		c.Next()
	}
}

// RedirectIfAuthenticated sends visitors who already hold a token to the
// landing page.
func (m *AuthMiddleware) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessions.Token(c) != "" {
			c.Redirect(http.StatusSeeOther, session.LandingPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetToken returns the admin token set by RequireAuth.
func GetToken(c *gin.Context) string {
	return c.GetString("token")
}

// GetSessionID returns the console session id set by RequireAuth.
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
