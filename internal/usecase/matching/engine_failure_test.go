package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	store_mock "github.com/ruixianxue/trading-simulator/internal/domain/order/v1/mock"
	"github.com/ruixianxue/trading-simulator/internal/infrastructure/memory"
	"github.com/ruixianxue/trading-simulator/internal/usecase/matching"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
)

func TestSubmitOrder_InsertFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := store_mock.NewMockStore(ctrl)
	e := matching.NewEngine(store, logger.NewNop())

	insertErr := errors.New("connection refused")
	store.EXPECT().
		InsertOrder(gomock.Any(), orderv1.SideBuy, gomock.Any(), int64(10)).
		Return(nil, insertErr)

	order, trades, err := e.SubmitOrder(context.Background(), orderv1.SideBuy, price("100.00"), 10)

	require.ErrorIs(t, err, insertErr)
	assert.Nil(t, order)
	assert.Nil(t, trades)
}

// A store failure during the matching pass aborts the pass but the accepted
// order is still returned to the caller.
func TestSubmitOrder_MatchingPassFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := store_mock.NewMockStore(ctrl)
	e := matching.NewEngine(store, logger.NewNop())

	accepted := &orderv1.Order{
		ID:        "order-1",
		Side:      orderv1.SideBuy,
		Price:     price("100.00"),
		Quantity:  10,
		Remaining: 10,
		Status:    orderv1.StatusOpen,
		CreatedAt: time.Now().UTC(),
		Sequence:  1,
	}
	listErr := errors.New("connection refused")

	store.EXPECT().
		InsertOrder(gomock.Any(), orderv1.SideBuy, gomock.Any(), int64(10)).
		Return(accepted, nil)
	store.EXPECT().ListOpenOrders(gomock.Any()).Return(nil, listErr)

	order, trades, err := e.SubmitOrder(context.Background(), orderv1.SideBuy, price("100.00"), 10)

	require.ErrorIs(t, err, listErr)
	assert.Equal(t, accepted, order)
	assert.Nil(t, trades)
}

// When the transactional unit fails, no trades are reported back.
func TestSubmitOrder_TransactionFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := store_mock.NewMockStore(ctrl)
	e := matching.NewEngine(store, logger.NewNop())

	now := time.Now().UTC()
	buy := &orderv1.Order{
		ID: "buy-1", Side: orderv1.SideBuy, Price: price("100.00"),
		Quantity: 10, Remaining: 10, Status: orderv1.StatusOpen,
		CreatedAt: now, Sequence: 1,
	}
	sell := &orderv1.Order{
		ID: "sell-1", Side: orderv1.SideSell, Price: price("100.00"),
		Quantity: 10, Remaining: 10, Status: orderv1.StatusOpen,
		CreatedAt: now.Add(time.Second), Sequence: 2,
	}
	txErr := errors.New("deadlock detected")

	store.EXPECT().
		InsertOrder(gomock.Any(), orderv1.SideSell, gomock.Any(), int64(10)).
		Return(sell, nil)
	store.EXPECT().
		ListOpenOrders(gomock.Any()).
		Return([]*orderv1.Order{buy, sell}, nil)
	store.EXPECT().
		InTransaction(gomock.Any(), gomock.Any()).
		Return(txErr)

	order, trades, err := e.SubmitOrder(context.Background(), orderv1.SideSell, price("100.00"), 10)

	require.ErrorIs(t, err, txErr)
	assert.Equal(t, sell, order)
	assert.Nil(t, trades)
}

// Feed publish failures are swallowed: the trades are already committed.
type failingFeed struct {
	calls int
}

func (f *failingFeed) PublishTrades(ctx context.Context, trades []*orderv1.Trade) error {
	f.calls++
	return errors.New("broker unreachable")
}

func TestSubmitOrder_FeedFailureDoesNotPropagate(t *testing.T) {
	feed := &failingFeed{}
	e := matching.NewEngine(memory.NewStore(), logger.NewNop(), matching.WithTradeFeed(feed))

	mustSubmit(t, e, orderv1.SideBuy, "100.00", 10)
	_, trades := mustSubmit(t, e, orderv1.SideSell, "100.00", 10)

	require.Len(t, trades, 1)
	assert.Equal(t, 1, feed.calls)
}
