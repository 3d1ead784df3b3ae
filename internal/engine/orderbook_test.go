package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efreitasn/lob/internal/clock"
	"github.com/efreitasn/lob/internal/domain"
)

func TestInsert_DuplicateOrderID(t *testing.T) {
	b := newTestBook()
	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)

	_, err = b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 101.0, Quantity: 50}, true)
	require.ErrorIs(t, err, domain.ErrDuplicateOrderID)

	// The rejected insert must leave the book untouched.
	assert.Equal(t, 1, b.OrderCount())
	o, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, 100.0, o.Price)
	assert.Equal(t, uint64(100), o.Quantity)
}

func TestInsert_Validation(t *testing.T) {
	tests := []struct {
		name    string
		order   domain.Order
		wantErr error
	}{
		{"zero quantity", domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0}, domain.ErrInvalidQuantity},
		{"zero price", domain.Order{OrderID: 1, Side: domain.OrderSideBid, Quantity: 10}, domain.ErrInvalidPrice},
		{"negative price", domain.Order{OrderID: 1, Side: domain.OrderSideAsk, Price: -1.0, Quantity: 10}, domain.ErrInvalidPrice},
		{"NaN price", domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: math.NaN(), Quantity: 10}, domain.ErrInvalidPrice},
		{"infinite price", domain.Order{OrderID: 1, Side: domain.OrderSideAsk, Price: math.Inf(1), Quantity: 10}, domain.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBook()
			_, err := b.Insert(tt.order, true)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, b.OrderCount())
		})
	}
}

func TestInsert_TimestampStamping(t *testing.T) {
	clk := clock.NewManual(42)
	b := NewOrderBook(clk, nil)

	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 10}, true)
	require.NoError(t, err)
	o, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(42), o.Timestamp, "zero timestamp should be stamped from the clock")

	_, err = b.Insert(domain.Order{OrderID: 2, Side: domain.OrderSideBid, Price: 99.0, Quantity: 10, Timestamp: 7}, true)
	require.NoError(t, err)
	o, ok = b.Get(2)
	require.True(t, ok)
	assert.Equal(t, uint64(7), o.Timestamp, "caller-supplied timestamp should be preserved")
}

func TestAmend_SamePriceKeepsQueuePosition(t *testing.T) {
	b := newTestBook()
	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)
	_, err = b.Insert(domain.Order{OrderID: 2, Side: domain.OrderSideBid, Price: 100.0, Quantity: 200}, true)
	require.NoError(t, err)

	trades, found, err := b.Amend(1, 100.0, 500, true)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, trades)

	bids, _ := b.Snapshot(1)
	require.Len(t, bids, 1)
	assert.Equal(t, uint64(700), bids[0].TotalQuantity)
	assert.Equal(t, 2, bids[0].OrderCount)

	// Order 1 kept its position at the head of the level: it fills first.
	fills, err := b.Insert(domain.Order{OrderID: 3, Side: domain.OrderSideAsk, Price: 100.0, Quantity: 600}, true)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, uint64(1), fills[0].BuyOrderID)
	assert.Equal(t, uint64(500), fills[0].Quantity)
	assert.Equal(t, uint64(2), fills[1].BuyOrderID)
	assert.Equal(t, uint64(100), fills[1].Quantity)
}

func TestAmend_PriceChangeForfeitsPriority(t *testing.T) {
	clk := clock.NewManual(1)
	b := NewOrderBook(clk, nil)

	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)
	clk.Advance(1)
	_, err = b.Insert(domain.Order{OrderID: 2, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)

	before, ok := b.Get(1)
	require.True(t, ok)

	// Move order 1 away and back: it keeps its id but re-enters at the
	// tail of the level with a fresh timestamp.
	clk.Advance(1)
	_, found, err := b.Amend(1, 99.0, 100, true)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, b.Exists(1), "id must stay resolvable across the price change")

	moved, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, 99.0, moved.Price)
	assert.Greater(t, moved.Timestamp, before.Timestamp)

	clk.Advance(1)
	_, found, err = b.Amend(1, 100.0, 100, true)
	require.NoError(t, err)
	require.True(t, found)

	// Order 2 now fills first at the shared level.
	fills, err := b.Insert(domain.Order{OrderID: 3, Side: domain.OrderSideAsk, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(2), fills[0].BuyOrderID)
}

func TestAmend_UnknownID(t *testing.T) {
	b := newTestBook()
	trades, found, err := b.Amend(999, 100.0, 10, true)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, trades)
}

func TestAmend_Validation(t *testing.T) {
	b := newTestBook()
	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)

	_, found, err := b.Amend(1, 100.0, 0, true)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.True(t, found)

	_, found, err = b.Amend(1, -5.0, 10, true)
	require.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.True(t, found)

	// The rejected amendments must leave the order untouched.
	o, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, 100.0, o.Price)
	assert.Equal(t, uint64(100), o.Quantity)
}

func TestCancel_UnknownID(t *testing.T) {
	b := newTestBook()
	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)

	before := b.Statistics().ActiveOrders
	assert.False(t, b.Cancel(999))
	assert.Equal(t, before, b.Statistics().ActiveOrders)
}

func TestStatistics_AccumulateAcrossMatches(t *testing.T) {
	b := newTestBook()
	_, err := b.Insert(domain.Order{OrderID: 1, Side: domain.OrderSideBid, Price: 100.0, Quantity: 100}, true)
	require.NoError(t, err)
	_, err = b.Insert(domain.Order{OrderID: 2, Side: domain.OrderSideAsk, Price: 100.0, Quantity: 60}, true)
	require.NoError(t, err)
	_, err = b.Insert(domain.Order{OrderID: 3, Side: domain.OrderSideAsk, Price: 100.0, Quantity: 40}, true)
	require.NoError(t, err)

	stats := b.Statistics()
	assert.Equal(t, uint64(2), stats.Trades)
	assert.Equal(t, uint64(100), stats.Volume)
	assert.Zero(t, stats.ActiveOrders)
}
