package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the connection surface the services depend on. *DB implements
// it; tests substitute an in-memory fake.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
