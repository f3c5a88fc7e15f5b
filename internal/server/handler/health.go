package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	checks    map[string]HealthCheck
	startedAt time.Time
}

// NewHealthHandler creates a health handler with the given dependency
// checks. Checks may be nil for a bare liveness probe.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		startedAt: time.Now().UTC(),
	}
}

// Health returns overall status plus per-dependency results. The endpoint
// stays 200 when an optional dependency is down; the body carries the
// degraded status so probes can alert without flapping the load balancer.
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"dependencies":   deps,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
