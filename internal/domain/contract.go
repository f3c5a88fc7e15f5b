package domain

import (
	"time"

	"github.com/cwoodfield/paritylens/internal/price"
)

// Platform identifies which exchange a contract was sourced from.
type Platform string

const (
	PlatformKalshi     Platform = "kalshi"
	PlatformPolymarket Platform = "polymarket"
)

// Contract is the canonical representation of one tradeable event-outcome on
// one platform. (Platform, ExternalID) is unique; ID is assigned by the store
// and Fingerprint is a deterministic content hash of the identity pair, stable
// across refreshes.
type Contract struct {
	ID          int64       `json:"id"`
	Fingerprint uint64      `json:"fingerprint"`
	Platform    Platform    `json:"platform"`
	ExternalID  string      `json:"externalId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Price       price.Price `json:"currentPrice"` // probability in [0,1]; 0.5 when upstream reports none
	Volume      price.Price `json:"volume"`
	Liquidity   price.Price `json:"liquidity"`
	Active      bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Key returns the platform-scoped identity of the contract.
func (c Contract) Key() ContractKey {
	return ContractKey{Platform: c.Platform, ExternalID: c.ExternalID}
}

// ContractKey is the unique upstream identity of a contract.
type ContractKey struct {
	Platform   Platform
	ExternalID string
}

// ContractFilter narrows List queries. Zero value matches everything.
type ContractFilter struct {
	Platform   Platform // empty -> all platforms
	ActiveOnly bool
	Limit      int // 0 -> no limit
	Offset     int
}
