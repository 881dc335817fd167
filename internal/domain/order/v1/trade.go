package orderv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable record of two orders crossing. Price is always the
// sell (resting) order's quoted price.
type Trade struct {
	ID          string          `json:"id"`
	BuyOrderID  string          `json:"buyOrderID"`
	SellOrderID string          `json:"sellOrderID"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	ExecutedAt  time.Time       `json:"executedAt"`
}

func (t *Trade) String() string {
	return fmt.Sprintf("%d @ $%s", t.Quantity, t.Price.StringFixed(2))
}

// Book is a point-in-time view of the open and partially filled orders,
// partitioned by side. Asks are sorted ascending by price, bids descending,
// equal prices ordered oldest first.
type Book struct {
	Asks []*Order `json:"asks"`
	Bids []*Order `json:"bids"`
}

// IsEmpty reports whether the book holds no resting orders on either side.
func (b *Book) IsEmpty() bool {
	return len(b.Asks) == 0 && len(b.Bids) == 0
}

// Stats aggregates the trade log and order set.
type Stats struct {
	TradeCount  int64           `json:"tradeCount"`
	TotalVolume int64           `json:"totalVolume"`
	AvgPrice    decimal.Decimal `json:"avgPrice"` // zero when no trades exist
	OrderCount  int64           `json:"orderCount"`
}
