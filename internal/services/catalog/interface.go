package catalog

import (
	"context"

	"coffee-order-system/internal/models"
)

// Store is the catalog persistence contract the HTTP handler depends on.
type Store interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id int) (*models.MenuItem, error)
	SetStock(ctx context.Context, id, stock int) (*models.StockUpdate, error)
}
