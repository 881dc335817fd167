package console

import (
	"fmt"
	"strings"

	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
)

const rule = "=================================================="

// FormatBook renders the current order book: sells lowest-price first, buys
// highest-price first, matching the side each crosses from.
func FormatBook(book *orderv1.Book) string {
	if book.IsEmpty() {
		return "ORDER BOOK: empty"
	}

	var b strings.Builder
	b.WriteString("ORDER BOOK:\n")
	b.WriteString(rule + "\n")

	b.WriteString("SELL ORDERS (lowest price first):\n")
	if len(book.Asks) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, order := range book.Asks {
		fmt.Fprintf(&b, "  %s\n", order)
	}

	b.WriteString("BUY ORDERS (highest price first):\n")
	if len(book.Bids) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, order := range book.Bids {
		fmt.Fprintf(&b, "  %s\n", order)
	}

	b.WriteString(rule)
	return b.String()
}

// FormatTrades renders the trade history, most recent first.
func FormatTrades(trades []*orderv1.Trade) string {
	if len(trades) == 0 {
		return "TRADE HISTORY: no trades yet"
	}

	var b strings.Builder
	b.WriteString("TRADE HISTORY:\n")
	b.WriteString(rule + "\n")
	for _, trade := range trades {
		fmt.Fprintf(&b, "Trade %s: %s | %s\n", trade.ID, trade, trade.ExecutedAt.Format("2006-01-02 15:04:05"))
	}
	b.WriteString(rule)
	return b.String()
}

// FormatStats renders the aggregate statistics.
func FormatStats(stats *orderv1.Stats) string {
	var b strings.Builder
	b.WriteString("STATISTICS:\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Total Orders:  %d\n", stats.OrderCount)
	fmt.Fprintf(&b, "Total Trades:  %d\n", stats.TradeCount)
	fmt.Fprintf(&b, "Total Volume:  %d\n", stats.TotalVolume)
	fmt.Fprintf(&b, "Average Price: $%s\n", stats.AvgPrice.StringFixed(2))
	b.WriteString(rule)
	return b.String()
}

// FormatSubmission renders the outcome of one order submission.
func FormatSubmission(order *orderv1.Order, trades []*orderv1.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order placed: %s %d @ $%s (ID: %s)",
		order.Side, order.Quantity, order.Price.StringFixed(2), order.ID)
	for _, trade := range trades {
		fmt.Fprintf(&b, "\nTRADE EXECUTED: %s (Trade ID: %s)", trade, trade.ID)
	}
	return b.String()
}
