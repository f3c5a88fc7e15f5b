// Package memory provides in-process fallbacks for the cache interfaces,
// used when no Redis is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// SnapshotCache keeps the last-good contract batch per platform in memory.
type SnapshotCache struct {
	mu    sync.RWMutex
	snaps map[domain.Platform]domain.ContractSnapshot
}

var _ domain.SnapshotCache = (*SnapshotCache)(nil)

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{snaps: make(map[domain.Platform]domain.ContractSnapshot)}
}

func (sc *SnapshotCache) SetContracts(_ context.Context, snap domain.ContractSnapshot) error {
	contracts := make([]domain.Contract, len(snap.Contracts))
	copy(contracts, snap.Contracts)
	snap.Contracts = contracts

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.snaps[snap.Platform] = snap
	return nil
}

func (sc *SnapshotCache) GetContracts(_ context.Context, platform domain.Platform) (domain.ContractSnapshot, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	snap, ok := sc.snaps[platform]
	if !ok {
		return domain.ContractSnapshot{}, fmt.Errorf("memory: snapshot %s: %w", platform, domain.ErrNotFound)
	}
	out := snap
	out.Contracts = make([]domain.Contract, len(snap.Contracts))
	copy(out.Contracts, snap.Contracts)
	return out, nil
}

// RateLimiter is a sliding-window limiter over in-process timestamps. It
// mirrors the Redis limiter's semantics for single-instance deployments.
type RateLimiter struct {
	mu    sync.Mutex
	hits  map[string][]time.Time
	clock func() time.Time
}

var _ domain.RateLimiter = (*RateLimiter)(nil)

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{hits: make(map[string][]time.Time), clock: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := rl.clock()
	cutoff := now.Add(-window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := rl.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		rl.hits[key] = kept
		return false, nil
	}
	rl.hits[key] = append(kept, now)
	return true, nil
}
