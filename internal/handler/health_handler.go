package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/internal/utils"
)

var startTime = time.Now()

// CategoryLister is the unauthenticated API call used to probe the backend.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	api     CategoryLister
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(api CategoryLister, version string) *HealthHandler {
	return &HealthHandler{api: api, version: version}
}

// GetHealth responds with service and market API status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	start := time.Now()
	_, err := h.api.ListCategories(c.Request.Context())
	backend := gin.H{
		"status":    "connected",
		"latencyMs": time.Since(start).Milliseconds(),
	}
	if err != nil {
		utils.Error(c, http.StatusServiceUnavailable, utils.CodeUpstreamUnavailable, "Market API unreachable: "+err.Error())
		return
	}

	utils.Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":    "healthy",
		"version":   h.version,
		"uptime":    int(time.Since(startTime).Seconds()),
		"marketApi": backend,
	})
}
