// Package catalog implements the menu catalog: item reads and the stock
// mutation.
package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/database"
	"coffee-order-system/internal/models"
)

// Service provides catalog reads and stock updates backed by PostgreSQL.
type Service struct {
	db database.Querier
}

// NewService creates a new catalog service
func NewService(db database.Querier) *Service {
	return &Service{db: db}
}

// List returns all menu items ordered by id, each with its option list.
func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenusSQL)
	if err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu items", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Stock); err != nil {
			return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu items", err)
		}
		item.Options = []models.Option{}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu items", err)
	}

	options, err := s.loadAllOptions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if opts, ok := options[items[i].ID]; ok {
			items[i].Options = opts
		}
	}

	return items, nil
}

// Get returns a single menu item with its options.
func (s *Service) Get(ctx context.Context, id int) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.QueryRow(ctx, database.GetMenuSQL, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeMenuNotFound, "menu item not found",
				map[string]interface{}{"menu_id": id})
		}
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu item", err)
	}

	item.Options = []models.Option{}
	rows, err := s.db.Query(ctx, database.ListMenuOptionsSQL, id)
	if err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		var menuID int
		if err := rows.Scan(&opt.ID, &menuID, &opt.Name, &opt.Price); err != nil {
			return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
		}
		item.Options = append(item.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
	}

	return &item, nil
}

// SetStock replaces the stock counter of a menu item. Concurrent updates are
// last-writer-wins.
func (s *Service) SetStock(ctx context.Context, id, stock int) (*models.StockUpdate, error) {
	if stock < 0 {
		return nil, apperr.Invalid(apperr.CodeInvalidStockValue,
			"stock must be a number of zero or greater",
			map[string]interface{}{"stock": stock})
	}

	var newStock int
	err := s.db.QueryRow(ctx, database.UpdateMenuStockSQL, stock, id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(apperr.CodeMenuNotFound, "menu item not found",
				map[string]interface{}{"menu_id": id})
		}
		return nil, apperr.Store(apperr.CodeStockUpdateError, "failed to update stock", err)
	}

	return &models.StockUpdate{ID: id, Stock: newStock}, nil
}

// loadAllOptions returns every option grouped by menu id.
func (s *Service) loadAllOptions(ctx context.Context) (map[int][]models.Option, error) {
	rows, err := s.db.Query(ctx, database.ListAllOptionsSQL)
	if err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
	}
	defer rows.Close()

	options := make(map[int][]models.Option)
	for rows.Next() {
		var opt models.Option
		var menuID int
		if err := rows.Scan(&opt.ID, &menuID, &opt.Name, &opt.Price); err != nil {
			return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
		}
		options[menuID] = append(options[menuID], opt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(apperr.CodeMenusFetchError, "failed to load menu options", err)
	}
	return options, nil
}
