package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/herevemarket/admin_console/internal/middleware"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/session"
	"github.com/herevemarket/admin_console/internal/view"
)

// Pages holds what every console page handler renders with.
type Pages struct {
	Renderer *view.Renderer
	Sessions *session.Manager
	// Audit shows the audit log link.
	Audit bool
	// Events enables the live activity banner.
	Events bool
}

func (p *Pages) render(c *gin.Context, status int, name, title string, body any, alerts ...string) {
	p.Renderer.Render(c, status, name, view.Page{
		Title:         title,
		Nav:           name,
		Email:         middleware.GetEmail(c),
		Authenticated: middleware.GetToken(c) != "",
		Events:        p.Events && middleware.GetToken(c) != "",
		Audit:         p.Audit,
		Alerts:        alerts,
		Body:          body,
	})
}

// sessionOf returns the acting session of an authenticated request.
func sessionOf(c *gin.Context) service.Session {
	return service.Session{
		Token: middleware.GetToken(c),
		ID:    middleware.GetSessionID(c),
		Actor: middleware.GetEmail(c),
	}
}

type confirmBody struct {
	Message string
	Action  string
}

// formConfirmer answers confirmation prompts from the posted confirm field.
// When the form carries no answer, the prompt is recorded so the handler can
// render the confirmation page instead.
type formConfirmer struct {
	answer string
	asked  string
}

func newFormConfirmer(c *gin.Context) *formConfirmer {
	return &formConfirmer{answer: c.PostForm("confirm")}
}

func (f *formConfirmer) Confirm(message string) bool {
	f.asked = message
	return f.answer == "yes"
}

// pending reports whether a prompt was raised without an answer.
func (f *formConfirmer) pending() bool {
	return f.asked != "" && f.answer == ""
}

func (p *Pages) renderConfirm(c *gin.Context, f *formConfirmer) {
	p.render(c, http.StatusOK, view.PageConfirm, "Onay", confirmBody{
		Message: f.asked,
		Action:  c.Request.URL.Path,
	})
}
