package render

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/efreitasn/lob/internal/domain"
	"github.com/efreitasn/lob/internal/engine"
)

// WriteBook writes a side-by-side view of the top depth levels of the
// book: bids on the left (best first), asks on the right (best first),
// followed by a one-line summary of book size and statistics.
func WriteBook(w io.Writer, book *engine.OrderBook, depth int) error {
	bids, asks := book.Snapshot(depth)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "BID QTY\tPRICE\t|\tPRICE\tASK QTY\t\n")

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	for i := 0; i < rows; i++ {
		var bidQty, bidPrice, askPrice, askQty string
		if i < len(bids) {
			bidQty = strconv.FormatUint(bids[i].TotalQuantity, 10)
			bidPrice = fmt.Sprintf("%.4f", bids[i].Price)
		}
		if i < len(asks) {
			askPrice = fmt.Sprintf("%.4f", asks[i].Price)
			askQty = strconv.FormatUint(asks[i].TotalQuantity, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t|\t%s\t%s\t\n", bidQty, bidPrice, askPrice, askQty)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := book.Statistics()
	_, err := fmt.Fprintf(w, "orders=%d (bid levels=%d, ask levels=%d) trades=%d volume=%d\n",
		stats.ActiveOrders, book.BidLevels(), book.AskLevels(), stats.Trades, stats.Volume)
	return err
}

// FormatOrder renders one resting order for console output.
func FormatOrder(o domain.Order) string {
	side := "SELL"
	if o.Side == domain.OrderSideBid {
		side = "BUY"
	}
	return fmt.Sprintf("order %d: %s %d @ %.4f (ts=%d)", o.OrderID, side, o.Quantity, o.Price, o.Timestamp)
}
