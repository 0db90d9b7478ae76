package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/middleware"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/session"
	"github.com/herevemarket/admin_console/internal/view"
)

const (
	loginInvalid     = "E-posta veya şifre hatalı"
	loginRateLimited = "Çok fazla hatalı deneme. Lütfen biraz sonra tekrar deneyin."
	loginFailed      = "Giriş yapılamadı. Lütfen tekrar deneyin."
)

type loginBody struct {
	Email string
	Error string
}

type AuthHandler struct {
	pages   *Pages
	auth    *service.AuthService
	limiter *middleware.InvalidLoginRateLimiter
}

func NewAuthHandler(pages *Pages, auth *service.AuthService, limiter *middleware.InvalidLoginRateLimiter) *AuthHandler {
	return &AuthHandler{pages: pages, auth: auth, limiter: limiter}
}

// LoginPage handles GET /admin/login.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, view.PageLogin, "Giriş", loginBody{})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	ip := c.ClientIP()

	if h.limiter.Blocked(ip) {
		log.Warn().Str("ip", ip).Msg("Login blocked by rate limit")
		h.pages.render(c, http.StatusTooManyRequests, view.PageLogin, "Giriş", loginBody{Email: email, Error: loginRateLimited})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		status, msg := http.StatusBadGateway, loginFailed
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.limiter.Allow(ip)
			status, msg = http.StatusUnauthorized, loginInvalid
		}
		h.pages.render(c, status, view.PageLogin, "Giriş", loginBody{Email: email, Error: msg})
		return
	}

	h.pages.Sessions.SetToken(c, token)
	h.pages.Sessions.ID(c)
	c.Redirect(http.StatusSeeOther, session.LandingPath)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.pages.Sessions.Logout(c)
	c.Redirect(http.StatusSeeOther, session.LoginPath)
}
