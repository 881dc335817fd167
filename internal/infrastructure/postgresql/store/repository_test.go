package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/internal/infrastructure/postgresql/store"
	apperrors "github.com/ruixianxue/trading-simulator/pkg/errors"
	logger_mock "github.com/ruixianxue/trading-simulator/pkg/logger/mock"
	"github.com/ruixianxue/trading-simulator/pkg/postgresql/mock"
)

type testDeps struct {
	db     *mock.MockPostgreSQLClient
	logger *logger_mock.MockInterface
}

func newTestStore(t *testing.T) (*store.Store, *testDeps) {
	ctrl := gomock.NewController(t)
	deps := &testDeps{
		db:     mock.NewMockPostgreSQLClient(ctrl),
		logger: logger_mock.NewMockInterface(ctrl),
	}
	deps.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	deps.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	return store.NewStore(deps.db, deps.logger), deps
}

func TestStore_InsertOrder(t *testing.T) {
	createdAt := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		scanErr error
		wantErr bool
	}{
		{name: "success"},
		{name: "insert fails", scanErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, deps := newTestStore(t)

			row := mock.NewMockRowInterface(gomock.NewController(t))
			row.EXPECT().Scan(gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
				if tc.scanErr != nil {
					return tc.scanErr
				}
				*dest[0].(*int64) = 7
				*dest[1].(*time.Time) = createdAt
				return nil
			})
			deps.db.EXPECT().
				QueryRow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(row)

			order, err := s.InsertOrder(context.Background(), orderv1.SideBuy, decimal.RequireFromString("100.50"), 10)

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.CodeEquals(err, apperrors.GeneralRepositoryError))
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, order.ID)
			assert.Equal(t, orderv1.SideBuy, order.Side)
			assert.Equal(t, int64(10), order.Remaining)
			assert.Equal(t, orderv1.StatusOpen, order.Status)
			assert.Equal(t, int64(7), order.Sequence)
			assert.Equal(t, createdAt, order.CreatedAt)
		})
	}
}

func TestStore_InsertTrade(t *testing.T) {
	executedAt := time.Date(2025, 6, 14, 9, 31, 0, 0, time.UTC)

	s, deps := newTestStore(t)

	row := mock.NewMockRowInterface(gomock.NewController(t))
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*time.Time) = executedAt
		return nil
	})
	deps.db.EXPECT().
		QueryRow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(row)

	trade, err := s.InsertTrade(context.Background(), "buy-1", "sell-1", decimal.RequireFromString("100.00"), 5)

	require.NoError(t, err)
	assert.NotEmpty(t, trade.ID)
	assert.Equal(t, "buy-1", trade.BuyOrderID)
	assert.Equal(t, "sell-1", trade.SellOrderID)
	assert.Equal(t, int64(5), trade.Quantity)
	assert.Equal(t, executedAt, trade.ExecutedAt)
}

func TestStore_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		tag      pgconn.CommandTag
		execErr  error
		wantErr  error
		wantCode apperrors.ErrorCode
	}{
		{
			name: "success",
			tag:  pgconn.NewCommandTag("UPDATE 1"),
		},
		{
			name:     "no matching row",
			tag:      pgconn.NewCommandTag("UPDATE 0"),
			wantErr:  orderv1.ErrOrderNotFound,
			wantCode: apperrors.OrderNotFoundError,
		},
		{
			name:     "exec fails",
			execErr:  errors.New("connection refused"),
			wantCode: apperrors.GeneralRepositoryError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, deps := newTestStore(t)

			deps.db.EXPECT().
				Exec(gomock.Any(), gomock.Any(), int64(4), orderv1.StatusPartial, "order-1").
				Return(tc.tag, tc.execErr)

			err := s.UpdateOrderStatus(context.Background(), "order-1", 4, orderv1.StatusPartial)

			if tc.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.CodeEquals(err, tc.wantCode))
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStore_ListOpenOrders(t *testing.T) {
	s, deps := newTestStore(t)

	fixtures := []*orderv1.Order{
		{
			ID:        "order-1",
			Side:      orderv1.SideBuy,
			Price:     decimal.RequireFromString("100.00"),
			Quantity:  10,
			Remaining: 10,
			Status:    orderv1.StatusOpen,
			Sequence:  1,
			CreatedAt: time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:        "order-2",
			Side:      orderv1.SideSell,
			Price:     decimal.RequireFromString("101.00"),
			Quantity:  8,
			Remaining: 3,
			Status:    orderv1.StatusPartial,
			Sequence:  2,
			CreatedAt: time.Date(2025, 6, 14, 9, 30, 1, 0, time.UTC),
		},
	}

	rows := mock.NewMockRowsInterface(gomock.NewController(t))
	next := 0
	rows.EXPECT().Next().DoAndReturn(func() bool {
		next++
		return next <= len(fixtures)
	}).Times(len(fixtures) + 1)
	rows.EXPECT().Scan(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).DoAndReturn(func(dest ...any) error {
		fixture := fixtures[next-1]
		*dest[0].(*string) = fixture.ID
		*dest[1].(*orderv1.Side) = fixture.Side
		*dest[2].(*decimal.Decimal) = fixture.Price
		*dest[3].(*int64) = fixture.Quantity
		*dest[4].(*int64) = fixture.Remaining
		*dest[5].(*orderv1.Status) = fixture.Status
		*dest[6].(*int64) = fixture.Sequence
		*dest[7].(*time.Time) = fixture.CreatedAt
		return nil
	}).Times(len(fixtures))
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()

	deps.db.EXPECT().
		Query(gomock.Any(), gomock.Any(), orderv1.StatusOpen, orderv1.StatusPartial).
		Return(rows, nil)

	orders, err := s.ListOpenOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "order-1", orders[0].ID)
	assert.Equal(t, "order-2", orders[1].ID)
	assert.Equal(t, int64(3), orders[1].Remaining)
}

func TestStore_ListOpenOrders_QueryError(t *testing.T) {
	s, deps := newTestStore(t)

	deps.db.EXPECT().
		Query(gomock.Any(), gomock.Any(), orderv1.StatusOpen, orderv1.StatusPartial).
		Return(nil, errors.New("connection refused"))

	orders, err := s.ListOpenOrders(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.CodeEquals(err, apperrors.GeneralRepositoryError))
	assert.Nil(t, orders)
}

func TestStore_ListTrades(t *testing.T) {
	s, deps := newTestStore(t)

	rows := mock.NewMockRowsInterface(gomock.NewController(t))
	gomock.InOrder(
		rows.EXPECT().Next().Return(true),
		rows.EXPECT().Scan(
			gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(),
		).DoAndReturn(func(dest ...any) error {
			*dest[0].(*string) = "trade-1"
			*dest[1].(*string) = "buy-1"
			*dest[2].(*string) = "sell-1"
			*dest[3].(*decimal.Decimal) = decimal.RequireFromString("100.00")
			*dest[4].(*int64) = 5
			*dest[5].(*time.Time) = time.Date(2025, 6, 14, 9, 31, 0, 0, time.UTC)
			return nil
		}),
		rows.EXPECT().Next().Return(false),
		rows.EXPECT().Err().Return(nil),
	)
	rows.EXPECT().Close()

	deps.db.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rows, nil)

	trades, err := s.ListTrades(context.Background())

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "trade-1", trades[0].ID)
	assert.Equal(t, "buy-1", trades[0].BuyOrderID)
	assert.Equal(t, int64(5), trades[0].Quantity)
}

func TestStore_Statistics(t *testing.T) {
	s, deps := newTestStore(t)

	tradeRow := mock.NewMockRowInterface(gomock.NewController(t))
	tradeRow.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*int64) = 3
		*dest[1].(*int64) = 25
		*dest[2].(*decimal.Decimal) = decimal.RequireFromString("100.75")
		return nil
	})
	orderRow := mock.NewMockRowInterface(gomock.NewController(t))
	orderRow.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*int64) = 6
		return nil
	})

	gomock.InOrder(
		deps.db.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(tradeRow),
		deps.db.EXPECT().QueryRow(gomock.Any(), gomock.Any()).Return(orderRow),
	)

	stats, err := s.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TradeCount)
	assert.Equal(t, int64(25), stats.TotalVolume)
	assert.True(t, stats.AvgPrice.Equal(decimal.RequireFromString("100.75")))
	assert.Equal(t, int64(6), stats.OrderCount)
}

func TestStore_Reset(t *testing.T) {
	s, deps := newTestStore(t)

	deps.db.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(pgconn.NewCommandTag("TRUNCATE TABLE"), nil)

	require.NoError(t, s.Reset(context.Background()))
}
