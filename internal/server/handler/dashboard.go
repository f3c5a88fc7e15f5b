package handler

import (
	"context"
	"net/http"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// DashboardReader exposes aggregate views over the stored data.
type DashboardReader interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	Overview(ctx context.Context) (domain.MarketOverview, error)
}

// DashboardHandler serves the dashboard aggregates.
type DashboardHandler struct {
	dashboard DashboardReader
}

func NewDashboardHandler(dashboard DashboardReader) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns headline counts and formatted volume/liquidity figures.
// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Overview returns sector breakdown and top performers.
// GET /api/market/overview
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}
