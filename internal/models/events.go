package models

import "time"

// Event names published to the order events exchange.
const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
)

// OrderEvent is the message published after an order is created or its
// status changes. PreviousStatus is set only for status changes.
type OrderEvent struct {
	Event          string      `json:"event"`
	OrderID        int         `json:"order_id"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
	TotalAmount    int         `json:"total_amount,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}
