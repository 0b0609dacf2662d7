package postgres

import (
	"context"
	"database/sql"
)

// Queryer is the read/write surface shared by *sql.DB and *sql.Tx, so
// callers can run statements inside or outside a transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
