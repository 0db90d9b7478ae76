package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/cache"
	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/view"
)

const ordersPath = "/admin/orders"

// OrdersHandler serves the orders page.
type OrdersHandler struct {
	pages  *Pages
	orders *service.OrdersService
	states cache.StateStore
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(pages *Pages, orders *service.OrdersService, states cache.StateStore) *OrdersHandler {
	return &OrdersHandler{pages: pages, orders: orders, states: states}
}

// List handles GET /admin/orders. keep=1 re-renders the stored state after a
// redirect; anything else is a fresh page load.
func (h *OrdersHandler) List(c *gin.Context) {
	sess := sessionOf(c)
	state := &models.OrdersState{}
	keep := c.Query("keep") == "1"
	if keep {
		state = h.load(c, sess.ID)
	}

	ctrl := h.orders.Controller(sess, state)
	if !keep {
		if err := ctrl.LoadOrders(c.Request.Context()); h.pages.Sessions.HandleUnauthorized(c, err) {
			return
		}
	}
	h.save(c, sess.ID, state)
	h.pages.render(c, http.StatusOK, view.PageOrders, "Siparişler", ctrl.View())
}

// Delete handles POST /admin/orders/:id/delete.
func (h *OrdersHandler) Delete(c *gin.Context) {
	sess := sessionOf(c)
	state := h.load(c, sess.ID)
	ctrl := h.orders.Controller(sess, state)

	confirm := newFormConfirmer(c)
	if err := ctrl.DeleteOrder(c.Request.Context(), c.Param("id"), confirm); h.pages.Sessions.HandleUnauthorized(c, err) {
		return
	}
	if confirm.pending() {
		h.pages.renderConfirm(c, confirm)
		return
	}
	h.save(c, sess.ID, state)
	c.Redirect(http.StatusSeeOther, ordersPath+"?keep=1")
}

func (h *OrdersHandler) load(c *gin.Context, sessionID string) *models.OrdersState {
	state, err := h.states.LoadOrders(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("Failed to load orders state")
		return &models.OrdersState{}
	}
	return state
}

func (h *OrdersHandler) save(c *gin.Context, sessionID string, state *models.OrdersState) {
	if err := h.states.SaveOrders(c.Request.Context(), sessionID, state); err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("Failed to save orders state")
	}
}
