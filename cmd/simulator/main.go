package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ruixianxue/trading-simulator/internal/app/console"
	orderv1 "github.com/ruixianxue/trading-simulator/internal/domain/order/v1"
	"github.com/ruixianxue/trading-simulator/internal/infrastructure/memory"
	pgstore "github.com/ruixianxue/trading-simulator/internal/infrastructure/postgresql/store"
	"github.com/ruixianxue/trading-simulator/internal/usecase/matching"
	"github.com/ruixianxue/trading-simulator/internal/usecase/tradefeed"
	"github.com/ruixianxue/trading-simulator/pkg/config"
	"github.com/ruixianxue/trading-simulator/pkg/logger"
	"github.com/ruixianxue/trading-simulator/pkg/postgresql"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.LogLevel)),
		logger.WithOutputPaths([]string{"simulator.log"}),
	)
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	storeKind := flag.String("store", "memory", "Order store backend: memory or postgres")
	flag.Parse()

	ctx := context.Background()
	defer log.Sync()

	store, cleanup, err := buildStore(ctx, *storeKind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize %s store: %v\n", *storeKind, err)
		os.Exit(1)
	}
	defer cleanup()

	var opts []matching.Option
	if cfg.TradeFeed.Enabled() {
		feed := tradefeed.NewPublisher(cfg.TradeFeed, log)
		defer feed.Close()
		opts = append(opts, matching.WithTradeFeed(feed))
	}

	engine := matching.NewEngine(store, log, opts...)

	fmt.Println("TRADING SIMULATOR - INTERACTIVE MODE")
	fmt.Println("Place orders and watch them match in real time.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printMenu()
		choice := prompt(scanner, "Enter your choice (1-7): ")

		switch choice {
		case "1":
			placeOrder(ctx, engine, scanner, orderv1.SideBuy)
		case "2":
			placeOrder(ctx, engine, scanner, orderv1.SideSell)
		case "3":
			book, err := engine.Book(ctx)
			if fail(err) {
				continue
			}
			fmt.Println(console.FormatBook(book))
		case "4":
			trades, err := engine.Trades(ctx)
			if fail(err) {
				continue
			}
			fmt.Println(console.FormatTrades(trades))
		case "5":
			stats, err := engine.Statistics(ctx)
			if fail(err) {
				continue
			}
			fmt.Println(console.FormatStats(stats))
		case "6":
			if prompt(scanner, "Clear all data? (yes/no): ") == "yes" {
				if !fail(engine.Reset(ctx)) {
					fmt.Println("All orders and trades cleared.")
				}
			} else {
				fmt.Println("Cancelled.")
			}
		case "7":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice, enter 1-7.")
		}
	}
}

func buildStore(ctx context.Context, kind string) (orderv1.Store, func(), error) {
	switch kind {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "postgres":
		client, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewStore(client, log), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("1. Place BUY order")
	fmt.Println("2. Place SELL order")
	fmt.Println("3. View order book")
	fmt.Println("4. View trade history")
	fmt.Println("5. View statistics")
	fmt.Println("6. Clear all data")
	fmt.Println("7. Exit")
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return "7" // EOF exits
	}
	return strings.TrimSpace(scanner.Text())
}

func placeOrder(ctx context.Context, engine *matching.Engine, scanner *bufio.Scanner, side orderv1.Side) {
	price, err := decimal.NewFromString(prompt(scanner, "Enter price: $"))
	if err != nil {
		fmt.Println("Invalid price, enter a number.")
		return
	}

	quantity, err := strconv.ParseInt(prompt(scanner, "Enter quantity: "), 10, 64)
	if err != nil {
		fmt.Println("Invalid quantity, enter a whole number.")
		return
	}

	order, trades, err := engine.SubmitOrder(ctx, side, price, quantity)
	if err != nil {
		fmt.Printf("Order rejected: %v\n", err)
		return
	}
	fmt.Println(console.FormatSubmission(order, trades))
}

func fail(err error) bool {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return true
	}
	return false
}
