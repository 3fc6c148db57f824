// Package orders implements the order pipeline: atomic order creation, the
// read side, and status transitions.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/database"
	"coffee-order-system/internal/logger"
	"coffee-order-system/internal/messaging"
	"coffee-order-system/internal/models"
)

// Service provides order operations backed by PostgreSQL. Events are
// published best-effort after successful commits.
type Service struct {
	db        database.Querier
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(db database.Querier, publisher *messaging.Publisher, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    log,
	}
}

// Create inserts the order header and all its items in one transaction,
// reserving stock for every referenced menu item. Any failure rolls the
// whole order back; an order never persists with partial items.
func (s *Service) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, database.InsertOrderSQL, models.StatusReceived, req.TotalAmount).
		Scan(&orderID)
	if err != nil {
		return nil, apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}

	for _, item := range req.Items {
		if err := s.insertItem(ctx, tx, orderID, item); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}

	// Re-read after commit so the response carries resolved menu names.
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("event_publish_failed", "", "Failed to publish order created event", err,
				map[string]interface{}{"order_id": order.ID})
		}
	}

	return order, nil
}

// insertItem reserves stock for one line item and inserts its row. The menu
// row is locked first so concurrent orders cannot oversell.
func (s *Service) insertItem(ctx context.Context, tx pgx.Tx, orderID int, item models.CreateOrderItem) error {
	var stock int
	err := tx.QueryRow(ctx, database.LockMenuStockSQL, item.MenuID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(apperr.CodeMenuNotFound, "menu item not found",
				map[string]interface{}{"menu_id": item.MenuID})
		}
		return apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}

	if stock < item.Quantity {
		return apperr.Invalid(apperr.CodeInsufficientStock,
			fmt.Sprintf("not enough stock for menu item %d", item.MenuID),
			map[string]interface{}{"menu_id": item.MenuID, "stock": stock, "quantity": item.Quantity})
	}

	if _, err := tx.Exec(ctx, database.DecrementMenuStockSQL, item.Quantity, item.MenuID); err != nil {
		return apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}

	options := item.Options
	if options == nil {
		options = []models.OptionSnapshot{}
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return apperr.Store(apperr.CodeOrderCreateError, "failed to serialize item options", err)
	}

	if _, err := tx.Exec(ctx, database.InsertOrderItemSQL,
		orderID, item.MenuID, item.Quantity, item.UnitPrice, optionsJSON); err != nil {
		return apperr.Store(apperr.CodeOrderCreateError, "failed to create order", err)
	}

	return nil
}

// List returns all orders, newest first, with their items resolved.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, database.ListOrdersSQL)
	if err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	index := make(map[int]int)
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.OrderTime, &order.Status, &order.TotalAmount); err != nil {
			return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load orders", err)
		}
		order.Items = []models.OrderItem{}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load orders", err)
	}

	itemRows, err := s.db.Query(ctx, database.ListAllOrderItemsSQL)
	if err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanOrderItem(itemRows)
		if err != nil {
			return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
	}

	return orders, nil
}

// Get returns a single order with its items resolved.
func (s *Service) Get(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRow(ctx, database.GetOrderSQL, id).
		Scan(&order.ID, &order.OrderTime, &order.Status, &order.TotalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeOrderNotFound, "order not found",
				map[string]interface{}{"order_id": id})
		}
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order", err)
	}

	order.Items = []models.OrderItem{}
	rows, err := s.db.Query(ctx, database.ListOrderItemsSQL, id)
	if err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeOrdersFetchError, "failed to load order items", err)
	}

	return &order, nil
}

// SetStatus applies an explicitly requested status. The lifecycle is
// forward-only: a stored status never regresses and never skips a step.
func (s *Service) SetStatus(ctx context.Context, id int, status models.OrderStatus) (*models.StatusUpdate, error) {
	if !status.Valid() {
		return nil, apperr.Invalid(apperr.CodeInvalidStatus, "invalid order status",
			map[string]interface{}{"status": status, "valid_statuses": models.ValidStatuses})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Store(apperr.CodeStatusUpdateError, "failed to update order status", err)
	}
	defer tx.Rollback(ctx)

	var current models.OrderStatus
	err = tx.QueryRow(ctx, database.LockOrderStatusSQL, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeOrderNotFound, "order not found",
				map[string]interface{}{"order_id": id})
		}
		return nil, apperr.Store(apperr.CodeStatusUpdateError, "failed to update order status", err)
	}

	if !models.CanTransition(current, status) {
		return nil, apperr.Invalid(apperr.CodeInvalidStatusTransition,
			fmt.Sprintf("order status cannot move from %s to %s", current, status),
			map[string]interface{}{"from": current, "to": status})
	}

	if _, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, status, id); err != nil {
		return nil, apperr.Store(apperr.CodeStatusUpdateError, "failed to update order status", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Store(apperr.CodeStatusUpdateError, "failed to update order status", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatusChanged(ctx, id, current, status); err != nil {
			s.logger.Error("event_publish_failed", "", "Failed to publish status changed event", err,
				map[string]interface{}{"order_id": id})
		}
	}

	return &models.StatusUpdate{ID: id, Status: status}, nil
}

// scanOrderItem reads one order item row, decoding the JSONB option
// snapshots and the live-resolved menu name.
func scanOrderItem(rows pgx.Rows) (models.OrderItem, error) {
	var item models.OrderItem
	var optionsJSON []byte
	err := rows.Scan(&item.ID, &item.OrderID, &item.MenuID, &item.Quantity,
		&item.UnitPrice, &optionsJSON, &item.MenuName)
	if err != nil {
		return item, err
	}

	item.Options = []models.OptionSnapshot{}
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &item.Options); err != nil {
			return item, err
		}
	}
	return item, nil
}
