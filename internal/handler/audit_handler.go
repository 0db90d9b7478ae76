package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/view"
)

type auditBody struct {
	Entries []models.AuditEntry
}

// AuditHandler serves the audit log page.
type AuditHandler struct {
	pages *Pages
	audit *service.AuditService
}

func NewAuditHandler(pages *Pages, audit *service.AuditService) *AuditHandler {
	return &AuditHandler{pages: pages, audit: audit}
}

// List handles GET /admin/audit.
func (h *AuditHandler) List(c *gin.Context) {
	if !h.audit.Enabled() {
		c.Redirect(http.StatusSeeOther, productsPath)
		return
	}

	entries, err := h.audit.Recent(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit entries")
		h.pages.render(c, http.StatusOK, view.PageAudit, "Kayıtlar", auditBody{}, "Kayıtlar getirilemedi")
		return
	}
	h.pages.render(c, http.StatusOK, view.PageAudit, "Kayıtlar", auditBody{Entries: entries})
}
