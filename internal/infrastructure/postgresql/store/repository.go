package store

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/pkg/errors"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
	"github.com/ruixianxue/trading-simulator/pkg/postgresql"
)

// Store is the PostgreSQL implementation of the order store. Ids are ULIDs
// assigned here; creation timestamps and tie-break sequence numbers are
// assigned by the database.
type Store struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ orderv1.Store = (*Store)(nil)

// NewStore creates a new PostgreSQL-backed store.
func NewStore(db postgresql.PostgreSQLClient, logger logger.Interface) *Store {
	return &Store{
		db:      db,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

// InsertOrder creates an order row with status OPEN and remaining equal to
// quantity.
func (s *Store) InsertOrder(ctx context.Context, side orderv1.Side, price decimal.Decimal, quantity int64) (*orderv1.Order, error) {
	query := `INSERT INTO orders (id, side, price, quantity, remaining, status)
		VALUES ($1, $2, $3, $4, $4, $5)
		RETURNING sequence, created_at`

	order := &orderv1.Order{
		ID:        s.newID(),
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Status:    orderv1.StatusOpen,
	}

	err := s.db.QueryRow(ctx, query,
		order.ID,
		order.Side,
		order.Price,
		order.Quantity,
		order.Status,
	).Scan(&order.Sequence, &order.CreatedAt)
	if err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	s.logger.Debug("Inserted order", logger.Field{
		Key:   "orderID",
		Value: order.ID,
	})

	return order, nil
}

// InsertTrade appends a trade row.
func (s *Store) InsertTrade(ctx context.Context, buyOrderID, sellOrderID string, price decimal.Decimal, quantity int64) (*orderv1.Trade, error) {
	query := `INSERT INTO trades (id, buy_order_id, sell_order_id, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING executed_at`

	trade := &orderv1.Trade{
		ID:          s.newID(),
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Price:       price,
		Quantity:    quantity,
	}

	err := s.db.QueryRow(ctx, query,
		trade.ID,
		trade.BuyOrderID,
		trade.SellOrderID,
		trade.Price,
		trade.Quantity,
	).Scan(&trade.ExecutedAt)
	if err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	s.logger.Debug("Inserted trade", logger.Field{
		Key:   "tradeID",
		Value: trade.ID,
	})

	return trade, nil
}

// UpdateOrderStatus updates one order's remaining quantity and status
// together. A missing row is surfaced as ErrOrderNotFound.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, remaining int64, status orderv1.Status) error {
	query := `UPDATE orders SET remaining = $1, status = $2 WHERE id = $3`

	cmd, err := s.db.Exec(ctx, query, remaining, status, orderID)
	if err != nil {
		return errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	if cmd.RowsAffected() == 0 {
		return errors.TracerFromError(orderv1.ErrOrderNotFound).WithCode(errors.OrderNotFoundError)
	}

	return nil
}

// ListOpenOrders returns all OPEN and PARTIAL orders ordered by creation.
func (s *Store) ListOpenOrders(ctx context.Context) ([]*orderv1.Order, error) {
	query := `SELECT id, side, price, quantity, remaining, status, sequence, created_at
		FROM orders
		WHERE status = $1 OR status = $2
		ORDER BY created_at ASC, sequence ASC`

	rows, err := s.db.Query(ctx, query, orderv1.StatusOpen, orderv1.StatusPartial)
	if err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}
	defer rows.Close()

	orders := []*orderv1.Order{}
	for rows.Next() {
		order := &orderv1.Order{}
		err := rows.Scan(
			&order.ID,
			&order.Side,
			&order.Price,
			&order.Quantity,
			&order.Remaining,
			&order.Status,
			&order.Sequence,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	return orders, nil
}

// ListTrades returns all trades, most recent first.
func (s *Store) ListTrades(ctx context.Context) ([]*orderv1.Trade, error) {
	query := `SELECT id, buy_order_id, sell_order_id, price, quantity, executed_at
		FROM trades
		ORDER BY sequence DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}
	defer rows.Close()

	trades := []*orderv1.Trade{}
	for rows.Next() {
		trade := &orderv1.Trade{}
		err := rows.Scan(
			&trade.ID,
			&trade.BuyOrderID,
			&trade.SellOrderID,
			&trade.Price,
			&trade.Quantity,
			&trade.ExecutedAt,
		)
		if err != nil {
			return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	return trades, nil
}

// Statistics aggregates the trade log and order set in SQL.
func (s *Store) Statistics(ctx context.Context) (*orderv1.Stats, error) {
	stats := &orderv1.Stats{}

	tradeQuery := `SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(AVG(price), 0) FROM trades`
	err := s.db.QueryRow(ctx, tradeQuery).Scan(&stats.TradeCount, &stats.TotalVolume, &stats.AvgPrice)
	if err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	orderQuery := `SELECT COUNT(*) FROM orders`
	if err := s.db.QueryRow(ctx, orderQuery).Scan(&stats.OrderCount); err != nil {
		return nil, errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	return stats, nil
}

// InTransaction runs fn inside a single database transaction. Store calls
// made with the context passed to fn join it.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return postgresql.WithTx(ctx, s.db, fn)
}

// Reset clears all orders and trades.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE orders, trades`); err != nil {
		return errors.TracerFromError(err).WithCode(errors.GeneralRepositoryError)
	}

	s.logger.Info("Cleared all orders and trades")
	return nil
}
