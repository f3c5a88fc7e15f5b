package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache using one JSON value per
// platform. Snapshots carry no TTL; the last good batch must survive an
// upstream outage of any length, and consumers judge staleness from
// FetchedAt.
//
// Key schema:
//
//	snapshot:contracts:{platform} - JSON-serialized ContractSnapshot
type SnapshotCache struct {
	rdb *redis.Client
}

var _ domain.SnapshotCache = (*SnapshotCache)(nil)

// NewSnapshotCache creates a SnapshotCache backed by the given Client.
func NewSnapshotCache(c *Client) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying()}
}

func snapshotKey(platform domain.Platform) string {
	return "snapshot:contracts:" + string(platform)
}

// SetContracts stores the last-good contract batch for one platform.
func (sc *SnapshotCache) SetContracts(ctx context.Context, snap domain.ContractSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", snap.Platform, err)
	}
	if err := sc.rdb.Set(ctx, snapshotKey(snap.Platform), data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", snap.Platform, err)
	}
	return nil
}

// GetContracts retrieves the last-good batch for one platform.
// It returns domain.ErrNotFound when no snapshot exists.
func (sc *SnapshotCache) GetContracts(ctx context.Context, platform domain.Platform) (domain.ContractSnapshot, error) {
	data, err := sc.rdb.Get(ctx, snapshotKey(platform)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ContractSnapshot{}, domain.ErrNotFound
		}
		return domain.ContractSnapshot{}, fmt.Errorf("redis: get snapshot %s: %w", platform, err)
	}

	var snap domain.ContractSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.ContractSnapshot{}, fmt.Errorf("redis: unmarshal snapshot %s: %w", platform, err)
	}
	return snap, nil
}
