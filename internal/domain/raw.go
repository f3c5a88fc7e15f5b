package domain

import "time"

// RawContract is a platform contract record before normalization. Field
// values are carried as the upstream strings; the normalizer owns all
// coercion and validation.
type RawContract struct {
	Platform    Platform
	ExternalID  string
	Title       string
	Description string
	Category    string
	LastPrice   string // last-traded price, preferred when present
	YesPrice    string // yes-side price, fallback
	Volume      string
	Liquidity   string
	Active      bool
}

// RawOrderBookLevel is one platform book level before normalization.
type RawOrderBookLevel struct {
	Price string
	Size  string
	Side  BookSide
	At    time.Time
}
