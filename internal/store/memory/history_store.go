package memory

import (
	"context"
	"sync"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// HistoryStore keeps sampled price points in memory, indexed per contract in
// append order.
type HistoryStore struct {
	mu         sync.RWMutex
	seq        int64
	byContract map[int64][]domain.PricePoint
}

var _ domain.PriceHistoryStore = (*HistoryStore)(nil)

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{byContract: make(map[int64][]domain.PricePoint)}
}

func (s *HistoryStore) Append(_ context.Context, p domain.PricePoint) (domain.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p.ID = s.seq
	s.byContract[p.ContractID] = append(s.byContract[p.ContractID], p)
	return p, nil
}

// ListByContract returns points newest first, at most limit (0 = all).
func (s *HistoryStore) ListByContract(_ context.Context, contractID int64, limit int) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := s.byContract[contractID]
	n := len(points)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.PricePoint, 0, n)
	for i := len(points) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, points[i])
	}
	return out, nil
}
