package orderv1_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    orderv1.Side
		wantErr error
	}{
		{name: "buy", input: "BUY", want: orderv1.SideBuy},
		{name: "sell", input: "SELL", want: orderv1.SideSell},
		{name: "lowercase rejected", input: "buy", wantErr: orderv1.ErrInvalidSide},
		{name: "empty rejected", input: "", wantErr: orderv1.ErrInvalidSide},
		{name: "unknown rejected", input: "HOLD", wantErr: orderv1.ErrInvalidSide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			side, err := orderv1.ParseSide(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, side)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		side     orderv1.Side
		price    decimal.Decimal
		quantity int64
		wantErr  error
	}{
		{name: "valid buy", side: orderv1.SideBuy, price: decimal.RequireFromString("100.50"), quantity: 10},
		{name: "valid sell", side: orderv1.SideSell, price: decimal.RequireFromString("0.00000001"), quantity: 1},
		{name: "bad side", side: orderv1.Side("SHORT"), price: decimal.RequireFromString("100"), quantity: 10, wantErr: orderv1.ErrInvalidSide},
		{name: "zero price", side: orderv1.SideBuy, price: decimal.Zero, quantity: 10, wantErr: orderv1.ErrInvalidPrice},
		{name: "negative price", side: orderv1.SideBuy, price: decimal.RequireFromString("-100"), quantity: 10, wantErr: orderv1.ErrInvalidPrice},
		{name: "zero quantity", side: orderv1.SideBuy, price: decimal.RequireFromString("100"), quantity: 0, wantErr: orderv1.ErrInvalidQuantity},
		{name: "negative quantity", side: orderv1.SideSell, price: decimal.RequireFromString("100"), quantity: -1, wantErr: orderv1.ErrInvalidQuantity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := orderv1.Validate(tc.side, tc.price, tc.quantity)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOrder_Fill(t *testing.T) {
	newOrder := func() *orderv1.Order {
		return &orderv1.Order{
			ID:        "o1",
			Side:      orderv1.SideBuy,
			Price:     decimal.RequireFromString("100.00"),
			Quantity:  10,
			Remaining: 10,
			Status:    orderv1.StatusOpen,
		}
	}

	t.Run("partial fill", func(t *testing.T) {
		o := newOrder()
		require.NoError(t, o.Fill(4))
		assert.Equal(t, int64(6), o.Remaining)
		assert.Equal(t, orderv1.StatusPartial, o.Status)
	})

	t.Run("full fill", func(t *testing.T) {
		o := newOrder()
		require.NoError(t, o.Fill(10))
		assert.Equal(t, int64(0), o.Remaining)
		assert.Equal(t, orderv1.StatusFilled, o.Status)
		assert.True(t, o.IsFilled())
	})

	t.Run("two partials then filled", func(t *testing.T) {
		o := newOrder()
		require.NoError(t, o.Fill(3))
		require.NoError(t, o.Fill(7))
		assert.Equal(t, orderv1.StatusFilled, o.Status)
	})

	t.Run("overfill rejected", func(t *testing.T) {
		o := newOrder()
		err := o.Fill(11)
		require.ErrorIs(t, err, orderv1.ErrOverfill)
		assert.Equal(t, int64(10), o.Remaining)
		assert.Equal(t, orderv1.StatusOpen, o.Status)
	})

	t.Run("non-positive fill rejected", func(t *testing.T) {
		o := newOrder()
		require.ErrorIs(t, o.Fill(0), orderv1.ErrInvalidQuantity)
		require.ErrorIs(t, o.Fill(-1), orderv1.ErrInvalidQuantity)
	})
}

func TestOrder_Before(t *testing.T) {
	base := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

	earlier := &orderv1.Order{CreatedAt: base, Sequence: 1}
	later := &orderv1.Order{CreatedAt: base.Add(time.Second), Sequence: 2}

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))

	// Equal timestamps fall back to the store-assigned sequence.
	sameTimeLowSeq := &orderv1.Order{CreatedAt: base, Sequence: 3}
	sameTimeHighSeq := &orderv1.Order{CreatedAt: base, Sequence: 4}
	assert.True(t, sameTimeLowSeq.Before(sameTimeHighSeq))
	assert.False(t, sameTimeHighSeq.Before(sameTimeLowSeq))
}

func TestOrder_String(t *testing.T) {
	o := &orderv1.Order{
		Side:      orderv1.SideBuy,
		Price:     decimal.RequireFromString("100.5"),
		Quantity:  10,
		Remaining: 10,
		Status:    orderv1.StatusOpen,
	}
	assert.Equal(t, "BUY 10 @ $100.50 [OPEN]", o.String())
}
