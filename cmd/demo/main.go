package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/ruixianxue/trading-simulator/internal/app/console"
	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/internal/infrastructure/memory"
	"github.com/ruixianxue/trading-simulator/internal/usecase/matching"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
)

// Scripted "day of trading" walkthrough against the in-memory store.
func main() {
	ctx := context.Background()
	engine := matching.NewEngine(memory.NewStore(), logger.NewNop())

	fmt.Println("TRADING SIMULATOR - ORDER BOOK DEMO")

	fmt.Println("\nMORNING: market opens, orders arrive...")
	place(ctx, engine, orderv1.SideBuy, "100.50", 10)
	place(ctx, engine, orderv1.SideBuy, "100.00", 5)
	place(ctx, engine, orderv1.SideSell, "101.00", 8)
	place(ctx, engine, orderv1.SideSell, "101.50", 12)
	showBook(ctx, engine) // no matches yet, prices don't cross

	fmt.Println("\nMIDDAY: aggressive seller arrives...")
	place(ctx, engine, orderv1.SideSell, "100.50", 7)
	showBook(ctx, engine)

	fmt.Println("\nAFTERNOON: more orders...")
	place(ctx, engine, orderv1.SideBuy, "101.00", 15)
	showBook(ctx, engine)

	place(ctx, engine, orderv1.SideSell, "99.50", 5)
	showBook(ctx, engine)

	fmt.Println("\nEVENING: final trades...")
	place(ctx, engine, orderv1.SideBuy, "100.75", 3)
	place(ctx, engine, orderv1.SideSell, "100.75", 3)
	showBook(ctx, engine)

	fmt.Println("\nEND OF DAY SUMMARY")
	trades, err := engine.Trades(ctx)
	exitOn(err)
	fmt.Println(console.FormatTrades(trades))

	stats, err := engine.Statistics(ctx)
	exitOn(err)
	fmt.Println(console.FormatStats(stats))
}

func place(ctx context.Context, engine *matching.Engine, side orderv1.Side, price string, quantity int64) {
	order, trades, err := engine.SubmitOrder(ctx, side, decimal.RequireFromString(price), quantity)
	exitOn(err)
	fmt.Println(console.FormatSubmission(order, trades))
}

func showBook(ctx context.Context, engine *matching.Engine) {
	book, err := engine.Book(ctx)
	exitOn(err)
	fmt.Println(console.FormatBook(book))
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}
