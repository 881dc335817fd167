package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowInterface wraps pgx.Row for mocking.
type RowInterface interface {
	Scan(dest ...any) error
}

// RowsInterface wraps pgx.Rows for mocking.
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// RowsWrapper wraps pgx.Rows to implement RowsInterface.
type RowsWrapper struct {
	rows pgx.Rows
}

// NewRowsWrapper creates a new RowsWrapper.
func NewRowsWrapper(rows pgx.Rows) RowsInterface {
	return &RowsWrapper{rows: rows}
}

// Next returns true if there are more rows to read.
func (r *RowsWrapper) Next() bool {
	return r.rows.Next()
}

// Scan scans the current row into the given destination.
func (r *RowsWrapper) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close closes the underlying rows.
func (r *RowsWrapper) Close() {
	r.rows.Close()
}

// Err returns the error from the underlying rows.
func (r *RowsWrapper) Err() error {
	return r.rows.Err()
}

// PostgreSQLClient defines the interface for PostgreSQL operations.
type PostgreSQLClient interface {
	// Basic query operations
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)
	QueryRow(ctx context.Context, sql string, args ...any) RowInterface

	// Transaction operations
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)

	// Connection management
	Ping(ctx context.Context) error
	Close()
}
