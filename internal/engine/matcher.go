package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/efreitasn/lob/internal/domain"
)

// matchAll crosses the book until best bid < best ask or one side
// empties. Each iteration fills the oldest order at the best bid
// against the oldest order at the best ask (strict price-time
// priority), at the less aggressive of the two prices, so the taker
// receives the price improvement. Fully filled orders are removed and
// empty levels dropped as the loop runs.
func (b *OrderBook) matchAll() []*domain.Trade {
	var trades []*domain.Trade

	for {
		bidLevel, ok := b.bids.best()
		if !ok {
			break
		}
		askLevel, ok := b.asks.best()
		if !ok {
			break
		}
		if bidLevel.price < askLevel.price {
			// No cross: the book rests.
			break
		}

		buy := bidLevel.front()
		sell := askLevel.front()

		qty := buy.Quantity
		if sell.Quantity < qty {
			qty = sell.Quantity
		}
		price := math.Min(buy.Price, sell.Price)

		buy.Quantity -= qty
		sell.Quantity -= qty
		bidLevel.reduce(qty)
		askLevel.reduce(qty)

		b.totalTrades++
		b.totalVolume += qty

		trade := &domain.Trade{
			TradeID:     uuid.New().String(),
			BuyOrderID:  buy.OrderID,
			SellOrderID: sell.OrderID,
			Price:       price,
			Quantity:    qty,
			ExecutedAt:  b.clock.Now(),
		}
		if b.tradeLog != nil {
			b.tradeLog.Append(trade)
		}
		trades = append(trades, trade)

		if buy.Quantity == 0 {
			b.unrest(b.index[buy.OrderID])
		}
		if sell.Quantity == 0 {
			b.unrest(b.index[sell.OrderID])
		}
	}

	return trades
}
