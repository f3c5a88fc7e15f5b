package handler

import (
	"context"
	"net/http"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// BookReader exposes order book reads and analytics.
type BookReader interface {
	Levels(ctx context.Context, contractID int64) ([]domain.OrderBookLevel, error)
	Analytics(ctx context.Context, contractID int64) (domain.OrderBookAnalytics, error)
	LiquidityMetrics(ctx context.Context) (domain.LiquidityMetrics, error)
}

// OrderBookHandler serves order book level and analytics endpoints.
type OrderBookHandler struct {
	books BookReader
}

func NewOrderBookHandler(books BookReader) *OrderBookHandler {
	return &OrderBookHandler{books: books}
}

// Levels returns the latest book snapshot for a contract.
// GET /api/contracts/{id}/order-book
func (h *OrderBookHandler) Levels(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid contract id")
		return
	}

	levels, err := h.books.Levels(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if levels == nil {
		levels = []domain.OrderBookLevel{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contract_id": id,
		"levels":      levels,
	})
}

// Analytics returns depth, sweep, spread, and gap analytics for a contract's
// book.
// GET /api/contracts/{id}/order-book-analytics
func (h *OrderBookHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid contract id")
		return
	}

	a, err := h.books.Analytics(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Liquidity returns aggregate liquidity metrics across all stored books.
// GET /api/liquidity/metrics
func (h *OrderBookHandler) Liquidity(w http.ResponseWriter, r *http.Request) {
	m, err := h.books.LiquidityMetrics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}
