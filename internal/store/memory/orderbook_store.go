package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// OrderBookStore keeps the latest book snapshot per contract. Replace swaps
// the whole snapshot; levels from an older refresh never linger.
type OrderBookStore struct {
	mu         sync.RWMutex
	seq        int64
	byContract map[int64][]domain.OrderBookLevel
}

var _ domain.OrderBookStore = (*OrderBookStore)(nil)

func NewOrderBookStore() *OrderBookStore {
	return &OrderBookStore{byContract: make(map[int64][]domain.OrderBookLevel)}
}

func (s *OrderBookStore) Replace(_ context.Context, contractID int64, levels []domain.OrderBookLevel) error {
	snap := make([]domain.OrderBookLevel, len(levels))
	copy(snap, levels)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range snap {
		s.seq++
		snap[i].ID = s.seq
		snap[i].ContractID = contractID
	}
	if len(snap) == 0 {
		delete(s.byContract, contractID)
		return nil
	}
	s.byContract[contractID] = snap
	return nil
}

func (s *OrderBookStore) ListByContract(_ context.Context, contractID int64) ([]domain.OrderBookLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	levels := s.byContract[contractID]
	out := make([]domain.OrderBookLevel, len(levels))
	copy(out, levels)
	return out, nil
}

func (s *OrderBookStore) ContractIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.byContract))
	for id := range s.byContract {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
