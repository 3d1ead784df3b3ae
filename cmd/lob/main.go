package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/efreitasn/lob/internal/clock"
	"github.com/efreitasn/lob/internal/config"
	"github.com/efreitasn/lob/internal/domain"
	"github.com/efreitasn/lob/internal/engine"
	"github.com/efreitasn/lob/internal/render"
	"github.com/efreitasn/lob/internal/store"
)

func main() {
	bench := flag.Bool("bench", false, "Run the insert/cancel benchmark instead of the demo")
	flag.Parse()

	// A .env file is optional; configuration comes from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if *bench {
		runBench(cfg, logger)
		return
	}
	runDemo(cfg, logger)
}

// newLogger builds a JSON slog logger at the configured level.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// runDemo walks the book through its full lifecycle: seeding both
// sides, cancelling, amending at the same and at a different price,
// crossing with an aggressive sell, and reporting statistics.
func runDemo(cfg *config.Config, logger *slog.Logger) {
	clk := clock.NewWallClock()
	tradeLog := store.NewTradeLog()
	book := engine.NewOrderBook(clk, tradeLog)

	seed := []domain.Order{
		{OrderID: 1, Side: domain.OrderSideBid, Price: 100.00, Quantity: 1000},
		{OrderID: 2, Side: domain.OrderSideBid, Price: 99.50, Quantity: 500},
		{OrderID: 3, Side: domain.OrderSideBid, Price: 99.00, Quantity: 750},
		{OrderID: 4, Side: domain.OrderSideBid, Price: 100.00, Quantity: 250},
		{OrderID: 5, Side: domain.OrderSideAsk, Price: 101.00, Quantity: 800},
		{OrderID: 6, Side: domain.OrderSideAsk, Price: 101.50, Quantity: 600},
		{OrderID: 7, Side: domain.OrderSideAsk, Price: 102.00, Quantity: 400},
		{OrderID: 8, Side: domain.OrderSideAsk, Price: 101.00, Quantity: 200},
	}
	for _, o := range seed {
		if _, err := book.Insert(o, true); err != nil {
			logger.Error("insert failed", slog.Uint64("order_id", o.OrderID), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	printBook(book, cfg.BookDepth, logger)

	logger.Info("cancelling order", slog.Uint64("order_id", 3))
	book.Cancel(3)

	logger.Info("amending order quantity", slog.Uint64("order_id", 1), slog.Uint64("new_quantity", 1500))
	if _, _, err := book.Amend(1, 100.00, 1500, true); err != nil {
		logger.Error("amend failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("amending order price", slog.Uint64("order_id", 5), slog.Float64("new_price", 100.50))
	if _, _, err := book.Amend(5, 100.50, 800, true); err != nil {
		logger.Error("amend failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("submitting aggressive sell", slog.Uint64("order_id", 9), slog.Float64("price", 99.00), slog.Uint64("quantity", 300))
	trades, err := book.Insert(domain.Order{OrderID: 9, Side: domain.OrderSideAsk, Price: 99.00, Quantity: 300}, true)
	if err != nil {
		logger.Error("insert failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, t := range trades {
		logger.Info("trade",
			slog.String("trade_id", t.TradeID),
			slog.Uint64("buy_order_id", t.BuyOrderID),
			slog.Uint64("sell_order_id", t.SellOrderID),
			slog.Float64("price", t.Price),
			slog.Uint64("quantity", t.Quantity),
		)
	}
	printBook(book, cfg.BookDepth, logger)

	if o, ok := book.Get(1); ok {
		fmt.Println(render.FormatOrder(o))
	}

	stats := book.Statistics()
	logger.Info("statistics",
		slog.Uint64("trades", stats.Trades),
		slog.Uint64("volume", stats.Volume),
		slog.Int("active_orders", stats.ActiveOrders),
	)
	if bid, ok := book.BestBid(); ok {
		logger.Info("best bid", slog.Float64("price", bid))
	}
	if ask, ok := book.BestAsk(); ok {
		logger.Info("best ask", slog.Float64("price", ask), slog.Float64("spread", book.Spread()))
	}
	if vwap, ok := tradeLog.VWAP(clk.Now(), cfg.VWAPWindow); ok {
		logger.Info("reference price",
			slog.Float64("vwap", vwap),
			slog.Duration("window", cfg.VWAPWindow),
			slog.Int("trades_recorded", tradeLog.Len()),
		)
	}
}

// runBench inserts BENCH_ORDERS non-crossing orders with matching
// disabled, cancels every fifth order up to BENCH_CANCELS, and reports
// timings.
func runBench(cfg *config.Config, logger *slog.Logger) {
	book := engine.NewOrderBook(clock.NewWallClock(), nil)

	start := time.Now()
	for i := 0; i < cfg.BenchOrders; i++ {
		side := domain.OrderSideAsk
		price := 110.0 + float64(i%cfg.BenchPriceLevels)
		if i%3 == 0 {
			side = domain.OrderSideBid
			price = 90.0 - float64(i%cfg.BenchPriceLevels)
		}
		order := domain.Order{
			OrderID:  uint64(i + 1),
			Side:     side,
			Price:    price,
			Quantity: uint64(25 + i%150),
		}
		if _, err := book.Insert(order, false); err != nil {
			logger.Error("insert failed", slog.Uint64("order_id", order.OrderID), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	insertTime := time.Since(start)

	start = time.Now()
	cancelled := 0
	for i := 0; i < cfg.BenchCancels; i++ {
		if book.Cancel(uint64(i*5 + 1)) {
			cancelled++
		}
	}
	cancelTime := time.Since(start)

	stats := book.Statistics()
	logger.Info("benchmark complete",
		slog.Int("orders_inserted", cfg.BenchOrders),
		slog.Duration("insert_time", insertTime),
		slog.Int("orders_cancelled", cancelled),
		slog.Duration("cancel_time", cancelTime),
		slog.Int("active_orders", stats.ActiveOrders),
		slog.Uint64("trades", stats.Trades),
	)
}

func printBook(book *engine.OrderBook, depth int, logger *slog.Logger) {
	if err := render.WriteBook(os.Stdout, book, depth); err != nil {
		logger.Error("failed to render book", slog.String("error", err.Error()))
	}
}
