package store

import (
	"sync"
	"time"

	"github.com/efreitasn/lob/internal/domain"
)

// TradeLog is an append-only in-memory record of executions, in
// chronological order. The book itself is single-threaded, but the log
// is safe for concurrent readers so a harness can inspect history while
// another goroutine owns the book.
type TradeLog struct {
	mu     sync.RWMutex
	trades []*domain.Trade
}

// NewTradeLog creates an empty TradeLog.
func NewTradeLog() *TradeLog {
	return &TradeLog{}
}

// Append adds a trade to the log.
func (l *TradeLog) Append(t *domain.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades = append(l.trades, t)
}

// All returns the recorded trades in chronological order. The returned
// slice is a copy.
func (l *TradeLog) All() []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Trade, len(l.trades))
	copy(result, l.trades)
	return result
}

// Len returns the number of recorded trades.
func (l *TradeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.trades)
}

// VWAP computes the volume-weighted average price of trades executed
// within the window ending at now (clock nanoseconds). It iterates
// backwards from the tail until executed_at falls outside the window.
// ok is false when the window holds no trades.
func (l *TradeLog) VWAP(now uint64, window time.Duration) (price float64, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var start uint64
	if w := uint64(window.Nanoseconds()); w < now {
		start = now - w
	}

	var sumPriceQty float64
	var sumQty uint64
	for i := len(l.trades) - 1; i >= 0; i-- {
		t := l.trades[i]
		if t.ExecutedAt < start {
			break
		}
		sumPriceQty += t.Price * float64(t.Quantity)
		sumQty += t.Quantity
	}
	if sumQty == 0 {
		return 0, false
	}
	return sumPriceQty / float64(sumQty), true
}
