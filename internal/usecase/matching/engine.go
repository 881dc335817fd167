package matching

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
)

// TradePublisher receives the trades produced by a matching pass after they
// have been committed.
type TradePublisher interface {
	PublishTrades(ctx context.Context, trades []*orderv1.Trade) error
}

// Engine accepts order submissions, maintains the book view derived from the
// store, and runs the matching pass on every accepted order.
//
// Passes are serialized: the mutex is held from validation through the last
// persisted update, so submissions are processed FIFO and no pass observes
// another mid-flight.
type Engine struct {
	store  orderv1.Store
	logger logger.Interface
	feed   TradePublisher

	mu sync.Mutex
}

// NewEngine creates a new matching engine on top of the given store.
func NewEngine(store orderv1.Store, logger logger.Interface, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SubmitOrder validates and persists a new order, then immediately runs a
// matching pass. It returns the stored order and the trades the pass
// produced. Validation failures reject the submission before any state is
// created; store failures abort the pass and propagate.
func (e *Engine) SubmitOrder(ctx context.Context, side orderv1.Side, price decimal.Decimal, quantity int64) (*orderv1.Order, []*orderv1.Trade, error) {
	if err := orderv1.Validate(side, price, quantity); err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order, err := e.store.InsertOrder(ctx, side, price, quantity)
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("Order placed",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "price", Value: order.Price.String()},
		logger.Field{Key: "quantity", Value: order.Quantity},
	)

	trades, err := e.runMatchingPass(ctx)
	if err != nil {
		// The order itself was accepted; resubmitting it would double it.
		return order, nil, err
	}

	if e.feed != nil && len(trades) > 0 {
		if err := e.feed.PublishTrades(ctx, trades); err != nil {
			// The feed is downstream of the book of record.
			e.logger.Error(err, logger.Field{Key: "action", Value: "publish_trades"})
		}
	}

	return order, trades, nil
}

// runMatchingPass reloads the full set of open orders, derives every implied
// crossing, and persists the trades together with both sides' order updates
// as one unit of work.
func (e *Engine) runMatchingPass(ctx context.Context) ([]*orderv1.Trade, error) {
	open, err := e.store.ListOpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	bids, asks := partition(open)
	sortBids(bids)
	sortAsks(asks)

	executions, err := crossOrders(bids, asks)
	if err != nil {
		return nil, err
	}
	if len(executions) == 0 {
		return nil, nil
	}

	var trades []*orderv1.Trade
	err = e.store.InTransaction(ctx, func(ctx context.Context) error {
		for _, ex := range executions {
			trade, err := e.store.InsertTrade(ctx, ex.buy.ID, ex.sell.ID, ex.price, ex.quantity)
			if err != nil {
				return err
			}
			if err := e.store.UpdateOrderStatus(ctx, ex.buy.ID, ex.buyRemaining, ex.buyStatus); err != nil {
				return err
			}
			if err := e.store.UpdateOrderStatus(ctx, ex.sell.ID, ex.sellRemaining, ex.sellStatus); err != nil {
				return err
			}
			trades = append(trades, trade)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, trade := range trades {
		e.logger.Info("Trade executed",
			logger.Field{Key: "tradeID", Value: trade.ID},
			logger.Field{Key: "buyOrderID", Value: trade.BuyOrderID},
			logger.Field{Key: "sellOrderID", Value: trade.SellOrderID},
			logger.Field{Key: "price", Value: trade.Price.String()},
			logger.Field{Key: "quantity", Value: trade.Quantity},
		)
	}

	return trades, nil
}

// Book returns a fresh snapshot of the open orders: asks ascending by price,
// bids descending, equal prices oldest first. The store is the source of
// truth; nothing is cached across calls.
func (e *Engine) Book(ctx context.Context) (*orderv1.Book, error) {
	open, err := e.store.ListOpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	bids, asks := partition(open)
	sortBids(bids)
	sortAsks(asks)

	return &orderv1.Book{
		Asks: asks,
		Bids: bids,
	}, nil
}

// Trades returns the full trade history, most recent first.
func (e *Engine) Trades(ctx context.Context) ([]*orderv1.Trade, error) {
	return e.store.ListTrades(ctx)
}

// Statistics returns aggregate counters over the trade log and order set.
func (e *Engine) Statistics(ctx context.Context) (*orderv1.Stats, error) {
	return e.store.Statistics(ctx)
}

// Reset clears all orders and trades. Serialized with submissions since it
// mutates the book they read.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Reset(ctx)
}
