package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/models"
)

const (
	statusOrdersLoading    = "Siparişler yükleniyor..."
	statusOrdersLoadFailed = "Hata: siparişler getirilemedi"
	statusOrderDeleting    = "Sipariş siliniyor..."
	statusOrderDeleteFail  = "Hata: sipariş silinemedi"

	confirmOrderDelete = "Sipariş silinsin mi?"
)

// OrdersAPI is the part of the market API the orders page uses.
type OrdersAPI interface {
	ListOrders(ctx context.Context, token string) ([]models.Order, error)
	DeleteOrder(ctx context.Context, token, id string) error
}

// OrdersSaver persists orders page state mid-operation.
type OrdersSaver interface {
	SaveOrders(ctx context.Context, sessionID string, state *models.OrdersState) error
}

// OrdersService builds per-request orders controllers.
type OrdersService struct {
	api      OrdersAPI
	recorder ActivityRecorder
	states   OrdersSaver
	now      clock
}

// NewOrdersService constructs an OrdersService. states may be nil.
func NewOrdersService(api OrdersAPI, recorder ActivityRecorder, states OrdersSaver) *OrdersService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &OrdersService{api: api, recorder: recorder, states: states, now: time.Now}
}

// Controller returns a controller acting on state for sess.
func (s *OrdersService) Controller(sess Session, state *models.OrdersState) *OrdersController {
	return &OrdersController{svc: s, sess: sess, State: state}
}

// OrdersController runs the orders page operations against one session's state.
type OrdersController struct {
	svc   *OrdersService
	sess  Session
	State *models.OrdersState
}

func (c *OrdersController) progress(ctx context.Context, status string) {
	c.State.Status = status
	if c.svc.states == nil {
		return
	}
	if err := c.svc.states.SaveOrders(ctx, c.sess.ID, c.State); err != nil {
		log.Warn().Err(err).Str("session", c.sess.ID).Msg("Failed to checkpoint orders state")
	}
}

// LoadOrders replaces the listed orders. A failed load keeps the previous
// rows and flags the failure; only ErrUnauthorized is returned.
func (c *OrdersController) LoadOrders(ctx context.Context) error {
	c.progress(ctx, statusOrdersLoading)

	orders, err := c.svc.api.ListOrders(ctx, c.sess.Token)
	if err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("session", c.sess.ID).Msg("Failed to load orders")
		c.State.Status = statusOrdersLoadFailed
		c.State.LoadFailed = true
		return nil
	}

	c.State.Orders = orders
	c.State.LoadFailed = false
	c.State.Status = ""
	return nil
}

// DeleteOrder deletes a listed order after confirmation and reloads the list.
// Ids that are not part of the loaded list, including "-", are ignored.
func (c *OrdersController) DeleteOrder(ctx context.Context, id string, confirmer Confirmer) error {
	if id == "-" || !c.State.HasOrder(id) {
		log.Warn().Str("order_id", id).Msg("Ignoring delete for unlisted order")
		return nil
	}
	if !confirmer.Confirm(confirmOrderDelete) {
		return nil
	}

	c.progress(ctx, statusOrderDeleting)
	if err := c.svc.api.DeleteOrder(ctx, c.sess.Token, id); err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("order_id", id).Msg("Failed to delete order")
		c.State.Status = statusOrderDeleteFail
		return nil
	}

	log.Info().Str("order_id", id).Str("actor", c.sess.Actor).Msg("Order deleted")
	c.svc.recorder.Record(ctx, models.Activity{
		Action:   models.ActivityOrderDeleted,
		TargetID: id,
		Actor:    c.sess.Actor,
		At:       c.svc.now(),
	})

	c.State.Status = ""
	return c.LoadOrders(ctx)
}

// OrderRow is one rendered orders table row.
type OrderRow struct {
	ID            string
	CreatedAt     string
	Customer      string
	PaymentMethod string
	ItemCount     int
	Total         models.Amount
	Status        models.OrderStatus
	// Deletable is false for orders without an id.
	Deletable bool
}

// OrdersView is everything the orders template needs.
type OrdersView struct {
	Rows   []OrderRow
	Empty  string
	Failed string
	Status string
}

// View renders the state into rows. An empty list yields a single empty-state
// message; a failed load appends the failure message below any rows.
func (c *OrdersController) View() OrdersView {
	v := OrdersView{Status: c.State.Status}
	for _, o := range c.State.Orders {
		row := OrderRow{
			ID:            dashIfEmpty(o.ID),
			CreatedAt:     o.CreatedAt,
			Customer:      dashIfEmpty(o.Customer.Title),
			PaymentMethod: dashIfEmpty(o.PaymentMethod),
			ItemCount:     len(o.Items),
			Total:         o.TotalPrice,
			Status:        o.Status,
			Deletable:     o.ID != "",
		}
		v.Rows = append(v.Rows, row)
	}
	if c.State.LoadFailed {
		v.Failed = "Siparişler yüklenemedi"
	} else if len(v.Rows) == 0 {
		v.Empty = "Sipariş yok"
	}
	return v
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
