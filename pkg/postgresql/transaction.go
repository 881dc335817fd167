package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type contextKey string

const txKey contextKey = "postgresql_transaction"

// Transaction is the transaction interface.
type Transaction interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TX is the transaction wrapper.
type TX struct {
	db PostgreSQLClient
}

// NewTransaction creates a new transaction wrapper.
func NewTransaction(db PostgreSQLClient) *TX {
	return &TX{db: db}
}

// Begin starts a transaction and returns context with embedded transaction.
func (t *TX) Begin(ctx context.Context) (context.Context, error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction from context.
func (t *TX) Commit(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Commit(ctx)
}

// Rollback rolls back the transaction from context.
func (t *TX) Rollback(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Rollback(ctx)
}

// GetTx extracts transaction from context.
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// WithTx executes a function within a transaction with automatic rollback on error.
func WithTx(ctx context.Context, db PostgreSQLClient, fn func(ctx context.Context) error) error {
	tx := NewTransaction(db)

	txCtx, err := tx.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(txCtx); rbErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(txCtx)
}
