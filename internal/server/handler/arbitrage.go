package handler

import (
	"context"
	"net/http"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// OpportunityReader exposes the active arbitrage opportunity set.
type OpportunityReader interface {
	ListActive(ctx context.Context) ([]domain.EnrichedOpportunity, error)
}

// ArbitrageHandler serves the arbitrage opportunity endpoints.
type ArbitrageHandler struct {
	opps OpportunityReader
}

func NewArbitrageHandler(opps OpportunityReader) *ArbitrageHandler {
	return &ArbitrageHandler{opps: opps}
}

// ListActive returns the active opportunities with both contracts attached.
// GET /api/arbitrage/opportunities
func (h *ArbitrageHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opps.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if opps == nil {
		opps = []domain.EnrichedOpportunity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": opps,
		"count":         len(opps),
	})
}
