package models

import (
	"time"

	"coffee-order-system/internal/apperr"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusReceived  OrderStatus = "RECEIVED"
	StatusMaking    OrderStatus = "MAKING"
	StatusCompleted OrderStatus = "COMPLETED"
)

// ValidStatuses lists every legal status value, in lifecycle order.
var ValidStatuses = []OrderStatus{StatusReceived, StatusMaking, StatusCompleted}

// Valid reports whether s is one of the legal status values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusMaking, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from current to requested.
// The lifecycle is forward-only, one step at a time; an order never regresses
// and COMPLETED is terminal.
func CanTransition(current, requested OrderStatus) bool {
	switch current {
	case StatusReceived:
		return requested == StatusMaking
	case StatusMaking:
		return requested == StatusCompleted
	}
	return false
}

// OptionSnapshot is an option choice copied onto an order item at order time.
// Unlike the menu reference it is owned by the item: later catalog edits never
// change it.
type OptionSnapshot struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// OrderItem is one line of an order. MenuID is a weak reference resolved to
// MenuName at read time; UnitPrice and Options are snapshots fixed at order
// time.
type OrderItem struct {
	ID        int              `json:"id" db:"id"`
	OrderID   int              `json:"order_id,omitempty" db:"order_id"`
	MenuID    int              `json:"menu_id" db:"menu_id"`
	MenuName  string           `json:"menu_name"`
	Quantity  int              `json:"quantity" db:"quantity"`
	UnitPrice int              `json:"unit_price" db:"unit_price"`
	Options   []OptionSnapshot `json:"options"`
}

// Order is an order header with its items.
type Order struct {
	ID          int         `json:"id" db:"id"`
	OrderTime   time.Time   `json:"order_time" db:"order_time"`
	Status      OrderStatus `json:"status" db:"status"`
	TotalAmount int         `json:"total_amount" db:"total_amount"`
	Items       []OrderItem `json:"items"`
}

// CreateOrderItem is one requested line of a new order.
type CreateOrderItem struct {
	MenuID    int              `json:"menu_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice int              `json:"unit_price"`
	Options   []OptionSnapshot `json:"options"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items"`
	TotalAmount int               `json:"total_amount"`
}

// StatusUpdate is the response shape of a status mutation.
type StatusUpdate struct {
	ID     int         `json:"id"`
	Status OrderStatus `json:"status"`
}

// SetStatusRequest carries the explicitly requested target status.
type SetStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// Validate checks the request before any store access. The total must match
// the sum of unit_price times quantity; unit prices are trusted snapshots
// from the catalog (option surcharges already folded in by the client).
func (req *CreateOrderRequest) Validate() error {
	if len(req.Items) == 0 {
		return apperr.Invalid(apperr.CodeInvalidItems,
			"order must contain at least one item",
			map[string]interface{}{"items": req.Items})
	}

	for i, item := range req.Items {
		if item.Quantity < 1 {
			return apperr.Invalid(apperr.CodeInvalidItems,
				"item quantity must be at least 1",
				map[string]interface{}{"index": i, "quantity": item.Quantity})
		}
		if item.UnitPrice < 0 {
			return apperr.Invalid(apperr.CodeInvalidItems,
				"item unit price must not be negative",
				map[string]interface{}{"index": i, "unit_price": item.UnitPrice})
		}
	}

	if req.TotalAmount <= 0 {
		return apperr.Invalid(apperr.CodeInvalidTotalAmount,
			"total amount must be a positive number",
			map[string]interface{}{"total_amount": req.TotalAmount})
	}

	if computed := req.ComputedTotal(); computed != req.TotalAmount {
		return apperr.Invalid(apperr.CodeTotalAmountMismatch,
			"total amount does not match the sum of item prices",
			map[string]interface{}{"total_amount": req.TotalAmount, "computed": computed})
	}

	return nil
}

// ComputedTotal returns the server-side total of the requested items.
func (req *CreateOrderRequest) ComputedTotal() int {
	total := 0
	for _, item := range req.Items {
		total += item.UnitPrice * item.Quantity
	}
	return total
}
