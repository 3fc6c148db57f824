package orders

import (
	"context"

	"coffee-order-system/internal/models"
)

// Store is the order persistence contract the HTTP handler depends on.
type Store interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id int) (*models.Order, error)
	SetStatus(ctx context.Context, id int, status models.OrderStatus) (*models.StatusUpdate, error)
}
