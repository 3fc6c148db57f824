package models

// Option is a configurable extra attached to a menu item, priced in minor
// currency units.
type Option struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Price int    `json:"price" db:"price"`
}

// MenuItem is a catalog entry. Stock is never negative.
type MenuItem struct {
	ID          int      `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Price       int      `json:"price" db:"price"`
	ImageURL    string   `json:"image_url" db:"image_url"`
	Stock       int      `json:"stock" db:"stock"`
	Options     []Option `json:"options"`
}

// StockUpdate is the response shape of a stock mutation.
type StockUpdate struct {
	ID    int `json:"id"`
	Stock int `json:"stock"`
}

// SetStockRequest carries the requested stock value. A pointer distinguishes
// an absent field from an explicit zero.
type SetStockRequest struct {
	Stock *int `json:"stock"`
}
