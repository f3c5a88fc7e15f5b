package memory

import (
	"context"
	"sync"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// OpportunityStore keeps arbitrage opportunities in memory. Evaluation passes
// call DeactivateAll then Insert their replacements, so the active set always
// reflects exactly one pass.
type OpportunityStore struct {
	mu    sync.RWMutex
	seq   int64
	arena []domain.ArbitrageOpportunity
}

var _ domain.OpportunityStore = (*OpportunityStore)(nil)

func NewOpportunityStore() *OpportunityStore {
	return &OpportunityStore{}
}

func (s *OpportunityStore) Insert(_ context.Context, o domain.ArbitrageOpportunity) (domain.ArbitrageOpportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	o.ID = s.seq
	s.arena = append(s.arena, o)
	return o, nil
}

func (s *OpportunityStore) ListActive(_ context.Context) ([]domain.ArbitrageOpportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ArbitrageOpportunity
	for _, o := range s.arena {
		if o.Active {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OpportunityStore) DeactivateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.arena {
		s.arena[i].Active = false
	}
	return nil
}
