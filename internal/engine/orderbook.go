package engine

import (
	"container/list"
	"math"

	"github.com/efreitasn/lob/internal/clock"
	"github.com/efreitasn/lob/internal/domain"
	"github.com/efreitasn/lob/internal/store"
)

// samePriceEpsilon absorbs floating-point representation error when
// deciding whether an amendment keeps the order at its current price.
const samePriceEpsilon = 1e-12

// bookEntry locates a resting order: which side, which level, and its
// position in the level's FIFO. The sides own the order data; entries
// only reference it.
type bookEntry struct {
	side  domain.OrderSide
	level *priceLevel
	elem  *list.Element
	order *domain.Order
}

// OrderBook is a single-instrument limit order book with continuous
// matching. It is not safe for concurrent use: callers sharing a book
// across goroutines must serialize access externally. Every operation
// runs to completion, including any triggered matching, so callers only
// ever observe fully consistent states.
type OrderBook struct {
	clock    clock.Clock
	bids     *bookSide
	asks     *bookSide
	index    map[uint64]*bookEntry // order_id → location
	tradeLog *store.TradeLog

	totalTrades uint64
	totalVolume uint64
}

// Statistics reports cumulative matching activity and current book size.
type Statistics struct {
	Trades       uint64
	Volume       uint64
	ActiveOrders int
}

// NewOrderBook creates an empty book. The trade log may be nil when the
// caller does not need execution history.
func NewOrderBook(clk clock.Clock, tradeLog *store.TradeLog) *OrderBook {
	return &OrderBook{
		clock:    clk,
		bids:     newBidSide(),
		asks:     newAskSide(),
		index:    make(map[uint64]*bookEntry),
		tradeLog: tradeLog,
	}
}

// Insert validates the order, rests it at the tail of its side's
// price-level FIFO, and runs the matching engine when autoMatch is set.
// A zero Timestamp is stamped from the clock. Returns the trades
// produced by matching, which may remove this or other orders.
func (b *OrderBook) Insert(order domain.Order, autoMatch bool) ([]*domain.Trade, error) {
	if _, ok := b.index[order.OrderID]; ok {
		return nil, domain.ErrDuplicateOrderID
	}
	if order.Quantity == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := validatePrice(order.Price); err != nil {
		return nil, err
	}

	if order.Timestamp == 0 {
		order.Timestamp = b.clock.Now()
	}
	b.rest(&order)

	if autoMatch {
		return b.matchAll(), nil
	}
	return nil, nil
}

// Cancel removes the order with the given id from the book. Returns
// false when the id is unknown. Cancelling never triggers matching:
// removing liquidity cannot create a cross.
func (b *OrderBook) Cancel(orderID uint64) bool {
	entry, ok := b.index[orderID]
	if !ok {
		return false
	}
	b.unrest(entry)
	return true
}

// Amend changes an order's price and quantity. An unchanged price
// (within epsilon) keeps the order's queue position and adjusts the
// level aggregate in place. A price change forfeits time priority: the
// order is cancelled and re-inserted at the new price with a fresh
// timestamp, keeping the same id throughout the call. Returns
// found=false when the id is unknown.
func (b *OrderBook) Amend(orderID uint64, newPrice float64, newQuantity uint64, autoMatch bool) (trades []*domain.Trade, found bool, err error) {
	entry, ok := b.index[orderID]
	if !ok {
		return nil, false, nil
	}
	if newQuantity == 0 {
		return nil, true, domain.ErrInvalidQuantity
	}
	if err := validatePrice(newPrice); err != nil {
		return nil, true, err
	}

	if math.Abs(entry.order.Price-newPrice) > samePriceEpsilon {
		replacement := domain.Order{
			OrderID:   orderID,
			Side:      entry.side,
			Price:     newPrice,
			Quantity:  newQuantity,
			Timestamp: b.clock.Now(),
		}
		b.unrest(entry)
		b.rest(&replacement)
	} else {
		lvl := entry.level
		old := entry.order.Quantity
		if newQuantity >= old {
			lvl.totalQuantity += newQuantity - old
		} else {
			lvl.reduce(old - newQuantity)
		}
		entry.order.Quantity = newQuantity
	}

	if autoMatch {
		return b.matchAll(), true, nil
	}
	return nil, true, nil
}

// MatchOrders runs the matching engine until no cross remains. Only
// needed after inserts or amendments made with autoMatch disabled.
func (b *OrderBook) MatchOrders() []*domain.Trade {
	return b.matchAll()
}

// Snapshot returns up to depth aggregated levels per side, best first.
func (b *OrderBook) Snapshot(depth int) (bids, asks []PriceLevel) {
	return b.bids.topLevels(depth), b.asks.topLevels(depth)
}

// BestBid returns the highest bid price. ok is false when the bid side
// is empty.
func (b *OrderBook) BestBid() (price float64, ok bool) {
	lvl, ok := b.bids.best()
	if !ok {
		return 0, false
	}
	return lvl.price, true
}

// BestAsk returns the lowest ask price. ok is false when the ask side
// is empty.
func (b *OrderBook) BestAsk() (price float64, ok bool) {
	lvl, ok := b.asks.best()
	if !ok {
		return 0, false
	}
	return lvl.price, true
}

// Spread returns best ask minus best bid, or 0 when either side is
// empty. A zero spread is not a price: check BestBid/BestAsk first.
func (b *OrderBook) Spread() float64 {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0
	}
	return ask - bid
}

// Exists reports whether an order with the given id is resting on the
// book.
func (b *OrderBook) Exists(orderID uint64) bool {
	_, ok := b.index[orderID]
	return ok
}

// Get returns a copy of the resting order with the given id.
func (b *OrderBook) Get(orderID uint64) (domain.Order, bool) {
	entry, ok := b.index[orderID]
	if !ok {
		return domain.Order{}, false
	}
	return *entry.order, true
}

// OrderCount returns the number of resting orders across both sides.
func (b *OrderBook) OrderCount() int {
	return len(b.index)
}

// BidLevels returns the number of distinct bid prices.
func (b *OrderBook) BidLevels() int {
	return b.bids.len()
}

// AskLevels returns the number of distinct ask prices.
func (b *OrderBook) AskLevels() int {
	return b.asks.len()
}

// Statistics returns cumulative trade count and volume plus the active
// order count.
func (b *OrderBook) Statistics() Statistics {
	return Statistics{
		Trades:       b.totalTrades,
		Volume:       b.totalVolume,
		ActiveOrders: len(b.index),
	}
}

// rest appends the order at the tail of its side's price-level FIFO
// (creating the level if absent) and registers it in the index.
func (b *OrderBook) rest(order *domain.Order) {
	lvl := b.sideOf(order.Side).getOrCreate(order.Price)
	elem := lvl.orders.PushBack(order)
	lvl.totalQuantity += order.Quantity
	b.index[order.OrderID] = &bookEntry{
		side:  order.Side,
		level: lvl,
		elem:  elem,
		order: order,
	}
}

// unrest removes a resting order from its level and the index, dropping
// the level when it empties.
func (b *OrderBook) unrest(entry *bookEntry) {
	entry.level.orders.Remove(entry.elem)
	entry.level.reduce(entry.order.Quantity)
	b.sideOf(entry.side).dropIfEmpty(entry.level)
	delete(b.index, entry.order.OrderID)
}

func (b *OrderBook) sideOf(s domain.OrderSide) *bookSide {
	if s == domain.OrderSideBid {
		return b.bids
	}
	return b.asks
}

// validatePrice rejects non-positive and non-finite prices.
func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return domain.ErrInvalidPrice
	}
	return nil
}
