package memory

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/pkg/errors"
)

// Store is an in-memory order store. It backs the demo and the engine test
// suite, where the original program used a throwaway database file.
//
// All reads return copies, so callers never observe each other's mutations:
// the only way state changes is through the write operations.
type Store struct {
	mu       sync.Mutex
	orders   map[string]*orderv1.Order
	ordering []string // insertion order of order ids
	trades   []*orderv1.Trade
	sequence int64
	entropy  *ulid.MonotonicEntropy
}

var _ orderv1.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		orders:  make(map[string]*orderv1.Order),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}

// InsertOrder creates an order with status OPEN and remaining equal to
// quantity.
func (s *Store) InsertOrder(ctx context.Context, side orderv1.Side, price decimal.Decimal, quantity int64) (*orderv1.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	order := &orderv1.Order{
		ID:        s.newID(),
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Status:    orderv1.StatusOpen,
		CreatedAt: time.Now().UTC(),
		Sequence:  s.sequence,
	}

	s.orders[order.ID] = order
	s.ordering = append(s.ordering, order.ID)

	copied := *order
	return &copied, nil
}

// InsertTrade appends a trade record.
func (s *Store) InsertTrade(ctx context.Context, buyOrderID, sellOrderID string, price decimal.Decimal, quantity int64) (*orderv1.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trade := &orderv1.Trade{
		ID:          s.newID(),
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Price:       price,
		Quantity:    quantity,
		ExecutedAt:  time.Now().UTC(),
	}
	s.trades = append(s.trades, trade)

	copied := *trade
	return &copied, nil
}

// UpdateOrderStatus updates one order's remaining quantity and status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, remaining int64, status orderv1.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return errors.TracerFromError(orderv1.ErrOrderNotFound).WithCode(errors.OrderNotFoundError)
	}

	order.Remaining = remaining
	order.Status = status
	return nil
}

// ListOpenOrders returns all OPEN and PARTIAL orders in insertion order.
func (s *Store) ListOpenOrders(ctx context.Context) ([]*orderv1.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := []*orderv1.Order{}
	for _, id := range s.ordering {
		order := s.orders[id]
		if order.Status == orderv1.StatusFilled {
			continue
		}
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

// ListTrades returns all trades, most recent first.
func (s *Store) ListTrades(ctx context.Context) ([]*orderv1.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := make([]*orderv1.Trade, 0, len(s.trades))
	for i := len(s.trades) - 1; i >= 0; i-- {
		copied := *s.trades[i]
		trades = append(trades, &copied)
	}
	return trades, nil
}

// Statistics aggregates the trade log and order set.
func (s *Store) Statistics(ctx context.Context) (*orderv1.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &orderv1.Stats{
		TradeCount: int64(len(s.trades)),
		OrderCount: int64(len(s.orders)),
		AvgPrice:   decimal.Zero,
	}

	priceSum := decimal.Zero
	for _, trade := range s.trades {
		stats.TotalVolume += trade.Quantity
		priceSum = priceSum.Add(trade.Price)
	}
	if stats.TradeCount > 0 {
		stats.AvgPrice = priceSum.Div(decimal.NewFromInt(stats.TradeCount))
	}

	return stats, nil
}

// InTransaction runs fn directly. The store applies writes immediately, so
// there is no rollback; the engine's pass-level lock is what keeps a
// matching pass from being observed half-applied.
func (s *Store) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Reset clears all orders and trades.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]*orderv1.Order)
	s.ordering = nil
	s.trades = nil
	s.sequence = 0
	return nil
}
