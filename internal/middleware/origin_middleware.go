package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/utils"
)

// originHost returns the host part of origin or referer URL, or empty if invalid.
// Strips default ports (:443, :80) so "admin.example.com:443" matches "admin.example.com".
func originHost(raw string) string {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "/"))
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return stripDefaultPort(strings.ToLower(u.Host))
}

func stripDefaultPort(host string) string {
	if strings.HasSuffix(host, ":443") || strings.HasSuffix(host, ":80") {
		host, _, _ = strings.Cut(host, ":")
	}
	return host
}

// SameOriginMiddleware rejects state-changing requests whose Origin (or
// Referer) names a host other than the console itself or one of extraHosts.
// Requests carrying neither header are let through.
func SameOriginMiddleware(extraHosts ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(extraHosts))
	for _, h := range extraHosts {
		if h = stripDefaultPort(strings.ToLower(strings.TrimSpace(h))); h != "" {
			allowed[h] = true
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")
		if origin == "" || origin == "null" {
			origin = c.Request.Header.Get("Referer")
		}
		if origin == "" {
			c.Next()
			return
		}

		host := originHost(origin)
		self := stripDefaultPort(strings.ToLower(c.Request.Host))
		if host != "" && (host == self || allowed[host]) {
			c.Next()
			return
		}

		log.Warn().
			Str("origin", origin).
			Str("path", c.Request.URL.Path).
			Msg("Cross-origin form post rejected")
		utils.AbortWithError(c, http.StatusForbidden, utils.CodeForbidden, "Cross-origin request rejected")
	}
}
