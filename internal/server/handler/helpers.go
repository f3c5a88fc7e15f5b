// Package handler implements the HTTP API handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cwoodfield/paritylens/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response failed", slog.String("error", err.Error()))
	}
}

// writeError writes a JSON error body, mapping domain sentinels to HTTP
// status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPrice):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUpstreamTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeBadRequest writes a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// pathID parses the {id} path value as an int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseLimit parses a positive limit query value, capped at maxListLimit.
func parseLimit(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid limit")
	}
	return min(n, maxListLimit), nil
}

// parseContractFilter builds a ContractFilter from query parameters:
// platform, active, limit, offset.
func parseContractFilter(r *http.Request) (domain.ContractFilter, error) {
	q := r.URL.Query()
	f := domain.ContractFilter{Limit: defaultListLimit}

	switch p := q.Get("platform"); p {
	case "":
	case string(domain.PlatformKalshi):
		f.Platform = domain.PlatformKalshi
	case string(domain.PlatformPolymarket):
		f.Platform = domain.PlatformPolymarket
	default:
		return f, errors.New("unknown platform: " + p)
	}

	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("invalid active flag")
		}
		f.ActiveOnly = active
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("invalid limit")
		}
		f.Limit = min(n, maxListLimit)
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("invalid offset")
		}
		f.Offset = n
	}

	return f, nil
}
