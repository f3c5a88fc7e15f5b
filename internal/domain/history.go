package domain

import (
	"time"

	"github.com/cwoodfield/paritylens/internal/price"
)

// PricePoint is one sampled price observation for a contract.
type PricePoint struct {
	ID         int64       `json:"id"`
	ContractID int64       `json:"contractId"`
	Price      price.Price `json:"price"`
	Volume     price.Price `json:"volume"`
	At         time.Time   `json:"timestamp"`
}

// ChartDataPoint is the chart-friendly projection of a PricePoint, oldest
// first when returned in a series.
type ChartDataPoint struct {
	Timestamp string  `json:"timestamp"` // RFC 3339
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume,omitempty"`
}
