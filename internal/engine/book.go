package engine

import (
	"container/list"

	"github.com/google/btree"

	"github.com/efreitasn/lob/internal/domain"
)

// PriceLevel is an aggregated snapshot record for one price level.
type PriceLevel struct {
	Price         float64
	TotalQuantity uint64
	OrderCount    int
}

// priceLevel aggregates all resting orders at one price on one side.
// orders is strict FIFO: inserts append at the back, matching consumes
// from the front. totalQuantity always equals the sum of the member
// orders' quantities.
type priceLevel struct {
	price         float64
	totalQuantity uint64
	orders        *list.List // of *domain.Order
}

func newPriceLevel(price float64) *priceLevel {
	return &priceLevel{
		price:  price,
		orders: list.New(),
	}
}

// front returns the oldest order at this level. The level must be
// non-empty; empty levels are removed from their side eagerly.
func (l *priceLevel) front() *domain.Order {
	return l.orders.Front().Value.(*domain.Order)
}

// reduce decrements the aggregate quantity, flooring at zero.
func (l *priceLevel) reduce(qty uint64) {
	if qty >= l.totalQuantity {
		l.totalQuantity = 0
		return
	}
	l.totalQuantity -= qty
}

// bidLevelLess orders the bid side by price descending, so Min()
// returns the best bid (highest price).
func bidLevelLess(a, b *priceLevel) bool {
	return a.price > b.price
}

// askLevelLess orders the ask side by price ascending, so Min()
// returns the best ask (lowest price).
func askLevelLess(a, b *priceLevel) bool {
	return a.price < b.price
}

// bookSide is one half of the book: an ordered index from price to
// price level, backed by a B-tree. Both sides share the implementation;
// only the comparator differs.
type bookSide struct {
	levels *btree.BTreeG[*priceLevel]
}

func newBidSide() *bookSide {
	const degree = 32
	return &bookSide{levels: btree.NewG(degree, bidLevelLess)}
}

func newAskSide() *bookSide {
	const degree = 32
	return &bookSide{levels: btree.NewG(degree, askLevelLess)}
}

// level returns the price level for the given price, if present.
func (s *bookSide) level(price float64) (*priceLevel, bool) {
	return s.levels.Get(&priceLevel{price: price})
}

// getOrCreate returns the level at price, creating it when absent.
func (s *bookSide) getOrCreate(price float64) *priceLevel {
	if lvl, ok := s.level(price); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.levels.ReplaceOrInsert(lvl)
	return lvl
}

// best returns the highest-priority level (best bid or best ask).
func (s *bookSide) best() (*priceLevel, bool) {
	return s.levels.Min()
}

// dropIfEmpty removes the level from the side once its FIFO is empty,
// so best-price queries never observe stale empty levels.
func (s *bookSide) dropIfEmpty(lvl *priceLevel) {
	if lvl.orders.Len() == 0 {
		s.levels.Delete(lvl)
	}
}

// topLevels returns up to n aggregated levels in priority order
// (best first).
func (s *bookSide) topLevels(n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	s.levels.Ascend(func(lvl *priceLevel) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         lvl.price,
			TotalQuantity: lvl.totalQuantity,
			OrderCount:    lvl.orders.Len(),
		})
		return true
	})
	return levels
}

// len returns the number of price levels on this side.
func (s *bookSide) len() int {
	return s.levels.Len()
}
