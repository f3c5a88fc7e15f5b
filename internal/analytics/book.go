// Package analytics derives execution-quality metrics from order book
// snapshots: depth prices, volume-weighted sweep costs, spread, and price
// gap detection.
package analytics

import (
	"fmt"
	"sort"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

// Depth labels kept from the dashboard: "100" is the best level, "1000" the
// third level from the top of the book.
const (
	depthLevelSmall = 1
	depthLevelLarge = 3
)

// Sweep sizes the analytics report quotes execution prices for.
const (
	sweepQtySmall = 100
	sweepQtyLarge = 1000
)

// minGapWidth is the floor under the gap threshold. Books quoted in whole
// cents always have 1-cent deltas; without the floor every such book would
// report wall-to-wall gaps.
var minGapWidth = price.Price(price.Scale / 100)

// Book is one contract's resting orders with bids sorted best-first
// (descending) and asks best-first (ascending).
type Book struct {
	Bids []domain.OrderBookLevel
	Asks []domain.OrderBookLevel
}

// NewBook splits raw levels by side and orders each side best price first.
func NewBook(levels []domain.OrderBookLevel) Book {
	var b Book
	for _, lv := range levels {
		switch lv.Side {
		case domain.SideBid:
			b.Bids = append(b.Bids, lv)
		case domain.SideAsk:
			b.Asks = append(b.Asks, lv)
		}
	}
	sort.SliceStable(b.Bids, func(i, j int) bool { return b.Bids[i].Price > b.Bids[j].Price })
	sort.SliceStable(b.Asks, func(i, j int) bool { return b.Asks[i].Price < b.Asks[j].Price })
	return b
}

func (b Book) side(s domain.BookSide) []domain.OrderBookLevel {
	if s == domain.SideBid {
		return b.Bids
	}
	return b.Asks
}

// DepthPrice returns the price at the n-th level from the best price, 1-based.
// A book with fewer than n levels yields 0.
func (b Book) DepthPrice(s domain.BookSide, n int) price.Price {
	levels := b.side(s)
	if n < 1 || n > len(levels) {
		return 0
	}
	return levels[n-1].Price
}

// SweepPrice returns the volume-weighted average price paid to consume qty
// units walking the book from the best level down. When the book holds less
// than qty the average covers only what was consumed; an empty side yields 0.
func (b Book) SweepPrice(s domain.BookSide, qty float64) price.Price {
	levels := b.side(s)
	if len(levels) == 0 || qty <= 0 {
		return 0
	}

	remaining := qty
	var cost, filled float64
	for _, lv := range levels {
		take := lv.Size
		if take > remaining {
			take = remaining
		}
		cost += lv.Price.Float64() * take
		filled += take
		remaining -= take
		if remaining <= 0 {
			break
		}
	}
	if filled == 0 {
		return 0
	}
	return price.FromFloat(cost / filled)
}

// Gaps flags price discontinuities on one side of the book. A delta between
// consecutive levels counts as a gap when it exceeds both twice the median
// delta and the one-cent floor, so the detector adapts to each book's own
// granularity.
func (b Book) Gaps(s domain.BookSide) []domain.PriceGap {
	levels := b.side(s)
	if len(levels) < 3 {
		return nil
	}

	deltas := make([]price.Price, 0, len(levels)-1)
	for i := 1; i < len(levels); i++ {
		d := levels[i].Price - levels[i-1].Price
		if d < 0 {
			d = -d
		}
		deltas = append(deltas, d)
	}

	sorted := make([]price.Price, len(deltas))
	copy(sorted, deltas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	median := sorted[len(sorted)/2]

	threshold := 2 * median
	if threshold < minGapWidth {
		threshold = minGapWidth
	}

	var gaps []domain.PriceGap
	for i, d := range deltas {
		if d <= threshold {
			continue
		}
		lo, hi := levels[i].Price, levels[i+1].Price
		if hi < lo {
			lo, hi = hi, lo
		}
		gaps = append(gaps, domain.PriceGap{
			Range: fmt.Sprintf("$%.2f - $%.2f", lo.Float64(), hi.Float64()),
			Gap:   fmt.Sprintf("%.1f¢", d.Float64()*100),
		})
	}
	return gaps
}

func totalSize(levels []domain.OrderBookLevel) float64 {
	var total float64
	for _, lv := range levels {
		total += lv.Size
	}
	return total
}

// Analyze computes the full analytics view for one contract's book. Empty
// books come back as the zero view rather than an error.
func Analyze(contractID int64, levels []domain.OrderBookLevel) domain.OrderBookAnalytics {
	b := NewBook(levels)

	out := domain.OrderBookAnalytics{
		ContractID:     contractID,
		BidPrice100:    b.DepthPrice(domain.SideBid, depthLevelSmall),
		AskPrice100:    b.DepthPrice(domain.SideAsk, depthLevelSmall),
		BidPrice1000:   b.DepthPrice(domain.SideBid, depthLevelLarge),
		AskPrice1000:   b.DepthPrice(domain.SideAsk, depthLevelLarge),
		SweepPrice100:  b.SweepPrice(domain.SideAsk, sweepQtySmall),
		SweepPrice1000: b.SweepPrice(domain.SideAsk, sweepQtyLarge),
		TotalBidDepth:  totalSize(b.Bids),
		TotalAskDepth:  totalSize(b.Asks),
	}

	if len(b.Bids) > 0 && len(b.Asks) > 0 {
		bestBid, bestAsk := b.Bids[0].Price, b.Asks[0].Price
		mid := (bestBid + bestAsk) / 2
		out.MidPrice = mid
		if mid > 0 {
			out.SpreadPct = (bestAsk - bestBid).Float64() / mid.Float64() * 100
		}
	}

	out.Gaps = append(b.Gaps(domain.SideBid), b.Gaps(domain.SideAsk)...)
	return out
}
