package postgres

import (
	"context"
	"database/sql"
)

// SQLQuerier is the query surface shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a unit of work.
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
