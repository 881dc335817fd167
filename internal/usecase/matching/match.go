package matching

import (
	"sort"

	"github.com/shopspring/decimal"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
)

// execution is one crossing produced by a matching pass, before it has been
// persisted. Price is always the sell side's quoted price.
type execution struct {
	buy      *orderv1.Order
	sell     *orderv1.Order
	price    decimal.Decimal
	quantity int64

	// both sides' state right after this execution, captured so each
	// persisted trade carries its two consistent order updates
	buyRemaining  int64
	buyStatus     orderv1.Status
	sellRemaining int64
	sellStatus    orderv1.Status
}

// partition splits orders into bids and asks, preserving input order.
func partition(orders []*orderv1.Order) (bids, asks []*orderv1.Order) {
	for _, order := range orders {
		if order.IsBuy() {
			bids = append(bids, order)
		} else {
			asks = append(asks, order)
		}
	}
	return bids, asks
}

// sortBids orders bids best-first: highest price, then earliest creation.
func sortBids(bids []*orderv1.Order) {
	sort.SliceStable(bids, func(i, j int) bool {
		if c := bids[i].Price.Cmp(bids[j].Price); c != 0 {
			return c > 0
		}
		return bids[i].Before(bids[j])
	})
}

// sortAsks orders asks best-first: lowest price, then earliest creation.
func sortAsks(asks []*orderv1.Order) {
	sort.SliceStable(asks, func(i, j int) bool {
		if c := asks[i].Price.Cmp(asks[j].Price); c != 0 {
			return c < 0
		}
		return asks[i].Before(asks[j])
	})
}

// crossOrders walks bids and asks in priority order and returns every
// execution implied by crossing prices. Both slices must already be sorted
// best-first; the early exits below rely on that ordering. Matched orders
// have Remaining and Status mutated in place.
func crossOrders(bids, asks []*orderv1.Order) ([]execution, error) {
	var executions []execution

	for _, buy := range bids {
		for _, sell := range asks {
			if sell.IsFilled() {
				continue
			}

			// Asks are sorted ascending: once one is too expensive,
			// every later one is too.
			if buy.Price.Cmp(sell.Price) < 0 {
				break
			}

			quantity := buy.Remaining
			if sell.Remaining < quantity {
				quantity = sell.Remaining
			}

			if err := buy.Fill(quantity); err != nil {
				return nil, err
			}
			if err := sell.Fill(quantity); err != nil {
				return nil, err
			}

			executions = append(executions, execution{
				buy:      buy,
				sell:     sell,
				price:    sell.Price,
				quantity: quantity,

				buyRemaining:  buy.Remaining,
				buyStatus:     buy.Status,
				sellRemaining: sell.Remaining,
				sellStatus:    sell.Status,
			})

			if buy.IsFilled() {
				break
			}
		}

		// The best-priced buy could not be fully matched, so no remaining
		// ask is within reach of any lower-priority buy either.
		if !buy.IsFilled() {
			break
		}
	}

	return executions, nil
}
