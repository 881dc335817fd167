package tradefeed

import (
	"encoding/json"
	"time"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
)

// TradeEvent is the wire form of an executed trade.
type TradeEvent struct {
	TradeID     string    `json:"tradeID"`
	BuyOrderID  string    `json:"buyOrderID"`
	SellOrderID string    `json:"sellOrderID"`
	Price       string    `json:"price"`
	Quantity    int64     `json:"quantity"`
	ExecutedAt  time.Time `json:"executedAt"`
}

// FromTrade converts a domain trade to its event form.
func FromTrade(trade *orderv1.Trade) TradeEvent {
	return TradeEvent{
		TradeID:     trade.ID,
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		Price:       trade.Price.String(),
		Quantity:    trade.Quantity,
		ExecutedAt:  trade.ExecutedAt,
	}
}

// ToBytes serializes the event for the feed topic.
func (e TradeEvent) ToBytes() []byte {
	payload, _ := json.Marshal(e)
	return payload
}
