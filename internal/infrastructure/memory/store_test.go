package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/internal/infrastructure/memory"
	"github.com/ruixianxue/trading-simulator/pkg/errors"
)

func TestInsertOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	order, err := store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.50"), 10)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, orderv1.SideBuy, order.Side)
	assert.Equal(t, int64(10), order.Quantity)
	assert.Equal(t, int64(10), order.Remaining)
	assert.Equal(t, orderv1.StatusOpen, order.Status)
	assert.False(t, order.CreatedAt.IsZero())

	second, err := store.InsertOrder(ctx, orderv1.SideSell, decimal.RequireFromString("101.00"), 5)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, second.ID)
	assert.Greater(t, second.Sequence, order.Sequence)
}

func TestUpdateOrderStatus(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	order, err := store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)

	require.NoError(t, store.UpdateOrderStatus(ctx, order.ID, 4, orderv1.StatusPartial))

	open, err := store.ListOpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(4), open[0].Remaining)
	assert.Equal(t, orderv1.StatusPartial, open[0].Status)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	store := memory.NewStore()

	err := store.UpdateOrderStatus(context.Background(), "no-such-id", 0, orderv1.StatusFilled)

	require.Error(t, err)
	assert.ErrorIs(t, err, orderv1.ErrOrderNotFound)
	assert.True(t, errors.CodeEquals(err, errors.OrderNotFoundError))
}

func TestListOpenOrders_ExcludesFilled(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	open1, err := store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)
	filled, err := store.InsertOrder(ctx, orderv1.SideSell, decimal.RequireFromString("101.00"), 5)
	require.NoError(t, err)
	partial, err := store.InsertOrder(ctx, orderv1.SideSell, decimal.RequireFromString("102.00"), 8)
	require.NoError(t, err)

	require.NoError(t, store.UpdateOrderStatus(ctx, filled.ID, 0, orderv1.StatusFilled))
	require.NoError(t, store.UpdateOrderStatus(ctx, partial.ID, 3, orderv1.StatusPartial))

	open, err := store.ListOpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, open1.ID, open[0].ID)
	assert.Equal(t, partial.ID, open[1].ID)
}

// Reads hand out copies: mutating a listed order must not leak back.
func TestListOpenOrders_ReturnsCopies(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)

	open, err := store.ListOpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	open[0].Remaining = 0
	open[0].Status = orderv1.StatusFilled

	again, err := store.ListOpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, int64(10), again[0].Remaining)
	assert.Equal(t, orderv1.StatusOpen, again[0].Status)
}

func TestInsertTrade_AndListTrades(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first, err := store.InsertTrade(ctx, "b1", "s1", decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.ExecutedAt.IsZero())

	second, err := store.InsertTrade(ctx, "b2", "s2", decimal.RequireFromString("101.00"), 5)
	require.NoError(t, err)

	trades, err := store.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, second.ID, trades[0].ID)
	assert.Equal(t, first.ID, trades[1].ID)
}

func TestStatistics(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	stats, err := store.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TradeCount)
	assert.Equal(t, int64(0), stats.TotalVolume)
	assert.True(t, stats.AvgPrice.IsZero())

	_, err = store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)
	_, err = store.InsertTrade(ctx, "b1", "s1", decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)
	_, err = store.InsertTrade(ctx, "b2", "s2", decimal.RequireFromString("101.50"), 4)
	require.NoError(t, err)

	stats, err = store.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TradeCount)
	assert.Equal(t, int64(14), stats.TotalVolume)
	assert.True(t, stats.AvgPrice.Equal(decimal.RequireFromString("100.75")), "got %s", stats.AvgPrice)
	assert.Equal(t, int64(1), stats.OrderCount)
}

func TestReset(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.InsertOrder(ctx, orderv1.SideBuy, decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)
	_, err = store.InsertTrade(ctx, "b1", "s1", decimal.RequireFromString("100.00"), 10)
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	open, err := store.ListOpenOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	trades, err := store.ListTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)

	stats, err := store.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TradeCount)
	assert.Equal(t, int64(0), stats.OrderCount)
}
