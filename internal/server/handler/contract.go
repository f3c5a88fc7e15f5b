package handler

import (
	"context"
	"net/http"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// ContractLister exposes the contract read operations handlers need.
type ContractLister interface {
	List(ctx context.Context, f domain.ContractFilter) ([]domain.Contract, error)
	Get(ctx context.Context, id int64) (domain.Contract, error)
}

// HistoryReader exposes price history reads.
type HistoryReader interface {
	Recent(ctx context.Context, contractID int64, limit int) ([]domain.PricePoint, error)
	ChartData(ctx context.Context, contractID int64, limit int) ([]domain.ChartDataPoint, error)
}

// ContractHandler serves contract listing, detail, and history endpoints.
type ContractHandler struct {
	contracts ContractLister
	history   HistoryReader
}

func NewContractHandler(contracts ContractLister, history HistoryReader) *ContractHandler {
	return &ContractHandler{contracts: contracts, history: history}
}

// List returns contracts, optionally filtered by platform and active flag.
// GET /api/contracts?platform=kalshi&active=true&limit=100&offset=0
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseContractFilter(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	contracts, err := h.contracts.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contracts": contracts,
		"count":     len(contracts),
	})
}

// Get returns a single contract by ID.
// GET /api/contracts/{id}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid contract id")
		return
	}

	c, err := h.contracts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// PriceHistory returns recent price points for a contract, newest first.
// GET /api/contracts/{id}/price-history?limit=50
func (h *ContractHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid contract id")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := parseLimit(v)
		if err != nil {
			writeBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	points, err := h.history.Recent(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if points == nil {
		points = []domain.PricePoint{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contract_id": id,
		"points":      points,
	})
}

// ChartData returns chart-ready points for a contract, oldest first.
// GET /api/contracts/{id}/chart-data?limit=50
func (h *ContractHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid contract id")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := parseLimit(v)
		if err != nil {
			writeBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	points, err := h.history.ChartData(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if points == nil {
		points = []domain.ChartDataPoint{}
	}

	writeJSON(w, http.StatusOK, points)
}
