package domain

import (
	"time"

	"github.com/cwoodfield/paritylens/internal/price"
)

// BookSide distinguishes resting bids from resting asks.
type BookSide string

const (
	SideBid BookSide = "bid"
	SideAsk BookSide = "ask"
)

// OrderBookLevel is one resting order at one price for one contract. Levels
// are reported as given; the system does not enforce bid<=ask consistency.
type OrderBookLevel struct {
	ID         int64       `json:"id"`
	ContractID int64       `json:"contractId"`
	Price      price.Price `json:"price"`
	Size       float64     `json:"size"`
	Side       BookSide    `json:"side"`
	At         time.Time   `json:"timestamp"`
}
