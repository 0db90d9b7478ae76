package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/herevemarket/admin_console/internal/session"
)

// ClaimsMiddleware exposes the admin e-mail from the stored token to the
// templates. Tokens that are not JWTs are passed through untouched.
type ClaimsMiddleware struct {
	sessions *session.Manager
}

func NewClaimsMiddleware(sessions *session.Manager) *ClaimsMiddleware {
	return &ClaimsMiddleware{sessions: sessions}
}

func (m *ClaimsMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := session.ParseClaims(m.sessions.Token(c)); ok && claims.Email != "" {
			c.Set("email", claims.Email)
		}
		c.Next()
	}
}

// GetEmail returns the admin e-mail, or "" when unknown.
func GetEmail(c *gin.Context) string {
	return c.GetString("email")
}
