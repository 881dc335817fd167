package orderv1

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Store is the persistence contract the matching engine consumes. The store
// assigns ids, creation timestamps and tie-break sequence numbers.
type Store interface {
	// InsertOrder creates an order with status OPEN and remaining equal to
	// quantity, and returns the stored row.
	InsertOrder(ctx context.Context, side Side, price decimal.Decimal, quantity int64) (*Order, error)

	// InsertTrade appends an immutable trade record.
	InsertTrade(ctx context.Context, buyOrderID, sellOrderID string, price decimal.Decimal, quantity int64) (*Trade, error)

	// UpdateOrderStatus updates exactly one existing order's remaining
	// quantity and status. Returns ErrOrderNotFound if no row matches.
	UpdateOrderStatus(ctx context.Context, orderID string, remaining int64, status Status) error

	// ListOpenOrders returns all orders with status OPEN or PARTIAL, ordered
	// by creation.
	ListOpenOrders(ctx context.Context) ([]*Order, error)

	// ListTrades returns all trades, most recent first.
	ListTrades(ctx context.Context) ([]*Trade, error)

	// Statistics aggregates over the trade log and order set.
	Statistics(ctx context.Context) (*Stats, error)

	// InTransaction runs fn as one unit of work. Store operations invoked
	// with the context passed to fn are committed or rolled back together.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Reset clears all orders and trades. Test and demo isolation only.
	Reset(ctx context.Context) error
}
