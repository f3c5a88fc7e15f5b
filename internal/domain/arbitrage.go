package domain

import (
	"time"

	"github.com/cwoodfield/paritylens/internal/price"
)

// Confidence classifies how significant an arbitrage spread is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ArbitrageOpportunity is a scored, directional signal derived from a matched
// contract pair and both current prices. An opportunity stays active until a
// later evaluation pass supersedes it; there is no time-based expiry.
type ArbitrageOpportunity struct {
	ID           int64       `json:"id"`
	KalshiID     int64       `json:"kalshiContractId"`
	PolymarketID int64       `json:"polymarketContractId"`
	KalshiPrice  price.Price `json:"kalshiPrice"`
	PolyPrice    price.Price `json:"polymarketPrice"`
	// SpreadPct is the absolute price difference expressed as a percentage
	// of the cheaper leg. PotentialProfit is the dollar return on the
	// reference stake; the two answer different questions and both are
	// carried.
	SpreadPct       float64     `json:"spread"`
	PotentialProfit price.Price `json:"potentialProfit"`
	Confidence      Confidence  `json:"confidence"`
	Similarity      float64     `json:"similarity"`
	Active          bool        `json:"isActive"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// EnrichedOpportunity carries the full contract records for display.
type EnrichedOpportunity struct {
	ArbitrageOpportunity
	KalshiContract     Contract `json:"kalshiContract"`
	PolymarketContract Contract `json:"polymarketContract"`
}
