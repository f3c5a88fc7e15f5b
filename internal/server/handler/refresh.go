package handler

import (
	"context"
	"net/http"
	"sync/atomic"
)

// CycleRunner runs a complete refresh plus evaluation cycle on demand.
type CycleRunner interface {
	RunOnce(ctx context.Context) error
}

// RefreshHandler triggers an immediate refresh cycle.
type RefreshHandler struct {
	runner  CycleRunner
	running atomic.Bool
}

func NewRefreshHandler(runner CycleRunner) *RefreshHandler {
	return &RefreshHandler{runner: runner}
}

// Trigger runs one refresh cycle synchronously. Concurrent triggers are
// rejected with 409 so a slow upstream cannot stack cycles.
// POST /api/refresh
func (h *RefreshHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "refresh already in progress",
		})
		return
	}
	defer h.running.Store(false)

	if err := h.runner.RunOnce(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
