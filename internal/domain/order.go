package domain

// OrderSide indicates whether an order is a bid (buy) or ask (sell).
type OrderSide string

const (
	OrderSideBid OrderSide = "bid"
	OrderSideAsk OrderSide = "ask"
)

// Order represents a single resting intent to trade. Quantity is the
// remaining open quantity: partial fills decrement it in place, and an
// order reaching zero is removed from the book immediately.
type Order struct {
	OrderID   uint64
	Side      OrderSide
	Price     float64
	Quantity  uint64
	Timestamp uint64 // nanoseconds, tie-break within a price level
}
