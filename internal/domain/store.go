package domain

import (
	"context"
	"time"
)

// ContractStore persists canonical contracts. Implementations assign
// monotonically increasing IDs on first insert and keep them stable across
// upserts of the same (platform, externalId) pair.
type ContractStore interface {
	Upsert(ctx context.Context, c Contract) (Contract, error)
	GetByID(ctx context.Context, id int64) (Contract, error)
	GetByKey(ctx context.Context, key ContractKey) (Contract, error)
	List(ctx context.Context, f ContractFilter) ([]Contract, error)
	Count(ctx context.Context) (int64, error)
	Deactivate(ctx context.Context, id int64) error
}

// PriceHistoryStore persists sampled price points.
type PriceHistoryStore interface {
	Append(ctx context.Context, p PricePoint) (PricePoint, error)
	// ListByContract returns points newest first, at most limit (0 = all).
	ListByContract(ctx context.Context, contractID int64, limit int) ([]PricePoint, error)
}

// OrderBookStore persists the latest book snapshot per contract.
type OrderBookStore interface {
	Replace(ctx context.Context, contractID int64, levels []OrderBookLevel) error
	ListByContract(ctx context.Context, contractID int64) ([]OrderBookLevel, error)
	ContractIDs(ctx context.Context) ([]int64, error)
}

// OpportunityStore persists arbitrage opportunities. A new evaluation pass
// deactivates the previous active set and inserts its replacement.
type OpportunityStore interface {
	Insert(ctx context.Context, o ArbitrageOpportunity) (ArbitrageOpportunity, error)
	ListActive(ctx context.Context) ([]ArbitrageOpportunity, error)
	DeactivateAll(ctx context.Context) error
}

// ContractSnapshot is the last-good normalized contract batch for one
// platform, kept for fallback when a live fetch fails.
type ContractSnapshot struct {
	Platform  Platform
	Contracts []Contract
	FetchedAt time.Time
}

// SnapshotCache stores the last-good contract batch per platform. Consumers
// decide staleness from FetchedAt.
type SnapshotCache interface {
	SetContracts(ctx context.Context, snap ContractSnapshot) error
	// GetContracts returns ErrNotFound when no snapshot exists.
	GetContracts(ctx context.Context, platform Platform) (ContractSnapshot, error)
}

// RateLimiter gates requests per key within a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
