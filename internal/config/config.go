package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the lob CLI.
type Config struct {
	LogLevel         string
	BookDepth        int
	BenchOrders      int
	BenchCancels     int
	BenchPriceLevels int
	VWAPWindow       time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	bookDepth, err := getInt("BOOK_DEPTH", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOK_DEPTH: %w", err)
	}
	if bookDepth <= 0 {
		return nil, fmt.Errorf("invalid BOOK_DEPTH: must be positive, got %d", bookDepth)
	}

	benchOrders, err := getInt("BENCH_ORDERS", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_ORDERS: %w", err)
	}
	if benchOrders <= 0 {
		return nil, fmt.Errorf("invalid BENCH_ORDERS: must be positive, got %d", benchOrders)
	}

	benchCancels, err := getInt("BENCH_CANCELS", 2000)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_CANCELS: %w", err)
	}
	if benchCancels < 0 || benchCancels > benchOrders {
		return nil, fmt.Errorf("invalid BENCH_CANCELS: must be between 0 and BENCH_ORDERS, got %d", benchCancels)
	}

	benchPriceLevels, err := getInt("BENCH_PRICE_LEVELS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid BENCH_PRICE_LEVELS: %w", err)
	}
	if benchPriceLevels <= 0 {
		return nil, fmt.Errorf("invalid BENCH_PRICE_LEVELS: must be positive, got %d", benchPriceLevels)
	}

	vwapWindow, err := getDuration("VWAP_WINDOW", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid VWAP_WINDOW: %w", err)
	}

	return &Config{
		LogLevel:         logLevel,
		BookDepth:        bookDepth,
		BenchOrders:      benchOrders,
		BenchCancels:     benchCancels,
		BenchPriceLevels: benchPriceLevels,
		VWAPWindow:       vwapWindow,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
