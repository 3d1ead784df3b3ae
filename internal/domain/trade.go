package domain

// Trade represents a matched execution between a bid and an ask order.
type Trade struct {
	TradeID     string
	BuyOrderID  uint64
	SellOrderID uint64
	Price       float64
	Quantity    uint64
	ExecutedAt  uint64 // clock nanoseconds
}
