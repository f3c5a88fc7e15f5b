// Package memory provides the in-process store implementations. Records live
// in append-only arenas with map indexes on top, so iteration order is
// insertion order and IDs are dense and monotonic.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// ContractStore keeps canonical contracts in memory.
type ContractStore struct {
	mu    sync.RWMutex
	seq   int64
	arena []domain.Contract
	byID  map[int64]int
	byKey map[domain.ContractKey]int
}

var _ domain.ContractStore = (*ContractStore)(nil)

func NewContractStore() *ContractStore {
	return &ContractStore{
		byID:  make(map[int64]int),
		byKey: make(map[domain.ContractKey]int),
	}
}

// Upsert inserts a new contract or updates the existing one with the same
// (platform, externalId). The assigned ID and the original CreatedAt survive
// updates.
func (s *ContractStore) Upsert(_ context.Context, c domain.Contract) (domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byKey[c.Key()]; ok {
		prev := s.arena[i]
		c.ID = prev.ID
		c.CreatedAt = prev.CreatedAt
		s.arena[i] = c
		return c, nil
	}

	s.seq++
	c.ID = s.seq
	s.arena = append(s.arena, c)
	i := len(s.arena) - 1
	s.byID[c.ID] = i
	s.byKey[c.Key()] = i
	return c, nil
}

func (s *ContractStore) GetByID(_ context.Context, id int64) (domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return domain.Contract{}, fmt.Errorf("memory: contract %d: %w", id, domain.ErrNotFound)
	}
	return s.arena[i], nil
}

func (s *ContractStore) GetByKey(_ context.Context, key domain.ContractKey) (domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byKey[key]
	if !ok {
		return domain.Contract{}, fmt.Errorf("memory: contract %s/%s: %w", key.Platform, key.ExternalID, domain.ErrNotFound)
	}
	return s.arena[i], nil
}

// List returns contracts in insertion order, filtered, with offset applied
// before limit.
func (s *ContractStore) List(_ context.Context, f domain.ContractFilter) ([]domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Contract
	skipped := 0
	for _, c := range s.arena {
		if f.Platform != "" && c.Platform != f.Platform {
			continue
		}
		if f.ActiveOnly && !c.Active {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *ContractStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.arena)), nil
}

func (s *ContractStore) Deactivate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("memory: contract %d: %w", id, domain.ErrNotFound)
	}
	s.arena[i].Active = false
	return nil
}
