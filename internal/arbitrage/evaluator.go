// Package arbitrage turns matched cross-platform contract pairs into scored
// trading signals.
package arbitrage

import (
	"fmt"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

// Confidence tier boundaries on the normalized spread, strictly greater-than.
const (
	highSpreadPct   = 10.0
	mediumSpreadPct = 5.0
)

// DefaultStakeUSD is the reference stake used to quote an opportunity's
// potential profit.
const DefaultStakeUSD = 1000.0

// Spread returns the absolute price difference as a percentage of the
// cheaper leg. The normalization matters: a 2-cent gap on a 5-cent contract
// is far more significant than on a 95-cent one. A non-positive price on
// either leg fails with ErrInvalidPrice so the division can never leak an
// Inf/NaN to callers.
func Spread(a, b price.Price) (float64, error) {
	if a <= 0 || b <= 0 {
		return 0, fmt.Errorf("arbitrage: prices %s/%s: %w", a, b, domain.ErrInvalidPrice)
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	lower := a
	if b < lower {
		lower = b
	}
	return diff.Float64() / lower.Float64() * 100, nil
}

// Classify maps a normalized spread percentage to a confidence tier.
func Classify(spreadPct float64) domain.Confidence {
	switch {
	case spreadPct > highSpreadPct:
		return domain.ConfidenceHigh
	case spreadPct > mediumSpreadPct:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// PotentialProfit returns the profit on a given stake: stake times the raw
// price difference. This is deliberately distinct from Spread, which answers
// "how wide is the gap", not "how much would $S make".
func PotentialProfit(a, b price.Price, stake float64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return stake * diff.Float64()
}

// Evaluate produces a fresh opportunity from a matched pair and both current
// prices. The convention is that the match's A side is the Kalshi contract
// and B the Polymarket one. Re-evaluation always produces a new record; the
// caller supersedes the old set, this function never mutates one.
func Evaluate(m domain.ContractMatch, now time.Time) (domain.ArbitrageOpportunity, error) {
	spreadPct, err := Spread(m.A.Price, m.B.Price)
	if err != nil {
		return domain.ArbitrageOpportunity{}, fmt.Errorf(
			"arbitrage: evaluate %s vs %s: %w", m.A.ExternalID, m.B.ExternalID, err,
		)
	}

	return domain.ArbitrageOpportunity{
		KalshiID:        m.A.ID,
		PolymarketID:    m.B.ID,
		KalshiPrice:     m.A.Price,
		PolyPrice:       m.B.Price,
		SpreadPct:       spreadPct,
		PotentialProfit: price.FromFloat(PotentialProfit(m.A.Price, m.B.Price, DefaultStakeUSD)),
		Confidence:      Classify(spreadPct),
		Similarity:      m.Score,
		Active:          true,
		CreatedAt:       now,
	}, nil
}
