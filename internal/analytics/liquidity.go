package analytics

import "github.com/cwoodfield/paritylens/internal/domain"

// Liquidity score blend weights and normalization ceilings. A book with a
// sub-cent spread, 5000 units resting at the top, and 20 quoted levels
// scores a full 1.0.
const (
	spreadWeight = 0.4
	depthWeight  = 0.4
	levelsWeight = 0.2

	spreadCeiling = 0.10 // price units; spreads at or beyond score 0
	depthCeiling  = 5000 // resting size at best prices
	levelsCeiling = 20
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scoreBook(b Book) (spread, depth, score float64) {
	bestBid, bestAsk := b.Bids[0], b.Asks[0]
	spread = (bestAsk.Price - bestBid.Price).Float64()
	depth = bestBid.Size + bestAsk.Size

	spreadScore := clamp01(1 - spread/spreadCeiling)
	depthScore := clamp01(depth / depthCeiling)
	levelScore := clamp01(float64(len(b.Bids)+len(b.Asks)) / levelsCeiling)

	score = spreadWeight*spreadScore + depthWeight*depthScore + levelsWeight*levelScore
	return spread, depth, score
}

// Liquidity aggregates liquidity quality across a set of books. One-sided and
// empty books are left out of the sample; with nothing two-sided to measure
// the zero value comes back.
func Liquidity(books [][]domain.OrderBookLevel) domain.LiquidityMetrics {
	var m domain.LiquidityMetrics
	var spreadSum, scoreSum float64

	for _, levels := range books {
		b := NewBook(levels)
		if len(b.Bids) == 0 || len(b.Asks) == 0 {
			continue
		}
		spread, depth, score := scoreBook(b)
		spreadSum += spread
		m.MarketDepth += depth
		scoreSum += score
		m.BooksSampled++
	}

	if m.BooksSampled == 0 {
		return m
	}
	m.AvgSpread = spreadSum / float64(m.BooksSampled)
	m.LiquidityScore = scoreSum / float64(m.BooksSampled)
	return m
}
