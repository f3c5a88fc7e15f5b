package domain

import "github.com/cwoodfield/paritylens/internal/price"

// PriceGap is a discontinuity between two consecutive levels on one side of
// an order book.
type PriceGap struct {
	Range string `json:"range"` // e.g. "$0.65 - $0.67"
	Gap   string `json:"gap"`   // e.g. "2.0¢"
}

// OrderBookAnalytics is the derived view of one contract's book. A missing or
// empty book yields the zero value of every field; thin books are expected,
// not exceptional.
//
// The 100/1000 depth fields keep the dashboard's historical labels: they are
// the first and third level from the best price. Sweep prices are true
// volume-weighted execution prices for orders of 100 and 1000 units.
type OrderBookAnalytics struct {
	ContractID     int64       `json:"contractId"`
	BidPrice100    price.Price `json:"bidPrice100"`
	AskPrice100    price.Price `json:"askPrice100"`
	BidPrice1000   price.Price `json:"bidPrice1000"`
	AskPrice1000   price.Price `json:"askPrice1000"`
	SweepPrice100  price.Price `json:"sweepPrice100"`
	SweepPrice1000 price.Price `json:"sweepPrice1000"`
	TotalBidDepth  float64     `json:"totalBidDepth"`
	TotalAskDepth  float64     `json:"totalAskDepth"`
	MidPrice       price.Price `json:"midPrice"`
	SpreadPct      float64     `json:"spreadPct"`
	Gaps           []PriceGap  `json:"gaps"`
}

// LiquidityMetrics aggregates liquidity quality over all tracked books.
type LiquidityMetrics struct {
	AvgSpread      float64 `json:"avgSpread"`      // mean best bid/ask spread in price units
	MarketDepth    float64 `json:"marketDepth"`    // total resting size at best prices
	LiquidityScore float64 `json:"liquidityScore"` // [0,1], spread+depth+level blend
	BooksSampled   int     `json:"booksSampled"`
}

// DashboardStats is the headline summary shown on the dashboard.
type DashboardStats struct {
	TotalVolume            string `json:"totalVolume"` // "$12.3M"
	ActiveContracts        int    `json:"activeContracts"`
	ArbitrageOpportunities int    `json:"arbitrageOpportunities"`
	AvgLiquidity           string `json:"avgLiquidity"` // "$5.0K"
}

// SectorShare is one slice of the category breakdown.
type SectorShare struct {
	Sector     string `json:"sector"`
	Percentage int    `json:"percentage"`
}

// Performer is a contract with its recent price change for the overview.
type Performer struct {
	Name   string `json:"name"`
	Change string `json:"change"` // "+8.2%"
}

// MarketOverview groups sector and mover summaries for the dashboard.
type MarketOverview struct {
	SectorBreakdown []SectorShare `json:"sectorBreakdown"`
	TopPerformers   []Performer   `json:"topPerformers"`
}
