package models

import (
	"encoding/json"
	"strings"
)

// OrderStatus is the lifecycle state reported by the market API.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Normalize folds case and the "cancelled" spelling; anything unknown is pending.
func (s OrderStatus) Normalize() OrderStatus {
	switch strings.ToLower(string(s)) {
	case "completed":
		return OrderStatusCompleted
	case "canceled", "cancelled":
		return OrderStatusCanceled
	default:
		return OrderStatusPending
	}
}

// Order is a customer order as listed by GET /orders. The console never
// mutates orders except by deleting them.
type Order struct {
	ID            string        `json:"id"`
	CreatedAt     string        `json:"createdAt"`
	Customer      OrderCustomer `json:"customer"`
	Items         []OrderItem   `json:"items"`
	PaymentMethod string        `json:"paymentMethod"`
	TotalPrice    Amount        `json:"totalPrice"`
	Status        OrderStatus   `json:"status"`
}

// OrderCustomer is the delivery contact attached to an order.
type OrderCustomer struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Note   string `json:"note,omitempty"`
}

// OrderItem is a single order line.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     Amount `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (o *Order) UnmarshalJSON(b []byte) error {
	type alias Order
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil && !IsTypeMismatch(err) {
		return err
	}
	*o = Order(raw.alias)
	if raw.MongoID != "" {
		o.ID = raw.MongoID
	}
	return nil
}
