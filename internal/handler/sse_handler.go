package handler

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/middleware"
	"github.com/herevemarket/admin_console/internal/sse"
)

// pingInterval keeps idle streams open through proxies.
const pingInterval = 30 * time.Second

// SSEHandler streams console activities to open pages.
type SSEHandler struct {
	hub *sse.Hub
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream handles GET /admin/events. It sits behind RequireAuth, so the
// browser's admin cookie authenticates the EventSource.
func (h *SSEHandler) Stream(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	clientID := "console-" + sessionID + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Debug().Str("client_id", clientID).Str("actor", middleware.GetEmail(c)).Msg("Console event stream started")

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(sse.EventActivity), string(data))
			return true
		case <-ping.C:
			c.SSEvent(string(sse.EventPing), gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
