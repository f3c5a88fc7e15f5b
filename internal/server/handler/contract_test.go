package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

type fakeContracts struct {
	contracts []domain.Contract
	gotFilter domain.ContractFilter
}

func (f *fakeContracts) List(_ context.Context, filter domain.ContractFilter) ([]domain.Contract, error) {
	f.gotFilter = filter
	return f.contracts, nil
}

func (f *fakeContracts) Get(_ context.Context, id int64) (domain.Contract, error) {
	for _, c := range f.contracts {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Contract{}, fmt.Errorf("contract %d: %w", id, domain.ErrNotFound)
}

type fakeHistory struct {
	points []domain.PricePoint
}

func (f *fakeHistory) Recent(_ context.Context, _ int64, limit int) ([]domain.PricePoint, error) {
	if limit > 0 && limit < len(f.points) {
		return f.points[:limit], nil
	}
	return f.points, nil
}

func (f *fakeHistory) ChartData(_ context.Context, _ int64, _ int) ([]domain.ChartDataPoint, error) {
	return nil, nil
}

func newTestContract(id int64, platform domain.Platform) domain.Contract {
	return domain.Contract{
		ID:         id,
		Platform:   platform,
		ExternalID: fmt.Sprintf("ext-%d", id),
		Title:      fmt.Sprintf("Contract %d", id),
		Price:      price.MustParse("0.50"),
		Active:     true,
	}
}

func TestContractList(t *testing.T) {
	contracts := &fakeContracts{contracts: []domain.Contract{
		newTestContract(1, domain.PlatformKalshi),
		newTestContract(2, domain.PlatformPolymarket),
	}}
	h := NewContractHandler(contracts, &fakeHistory{})

	t.Run("passes filter through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts?platform=kalshi&active=true&limit=5&offset=10", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		want := domain.ContractFilter{
			Platform:   domain.PlatformKalshi,
			ActiveOnly: true,
			Limit:      5,
			Offset:     10,
		}
		if contracts.gotFilter != want {
			t.Errorf("filter = %+v, want %+v", contracts.gotFilter, want)
		}

		var body struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Count != 2 {
			t.Errorf("count = %d, want 2", body.Count)
		}
	})

	t.Run("rejects unknown platform", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts?platform=betfair", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("caps limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts?limit=99999", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if contracts.gotFilter.Limit != maxListLimit {
			t.Errorf("limit = %d, want capped at %d", contracts.gotFilter.Limit, maxListLimit)
		}
	})
}

func TestContractGet(t *testing.T) {
	contracts := &fakeContracts{contracts: []domain.Contract{
		newTestContract(7, domain.PlatformKalshi),
	}}
	h := NewContractHandler(contracts, &fakeHistory{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/contracts/{id}", h.Get)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts/7", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var got domain.Contract
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != 7 {
			t.Errorf("ID = %d, want 7", got.ID)
		}
	})

	t.Run("missing maps to 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts/99", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts/abc", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestContractPriceHistory(t *testing.T) {
	history := &fakeHistory{points: []domain.PricePoint{
		{ContractID: 7, Price: price.MustParse("0.55")},
		{ContractID: 7, Price: price.MustParse("0.54")},
		{ContractID: 7, Price: price.MustParse("0.53")},
	}}
	h := NewContractHandler(&fakeContracts{}, history)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/contracts/{id}/price-history", h.PriceHistory)

	req := httptest.NewRequest(http.MethodGet, "/api/contracts/7/price-history?limit=2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		ContractID int64               `json:"contract_id"`
		Points     []domain.PricePoint `json:"points"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ContractID != 7 {
		t.Errorf("contract_id = %d, want 7", body.ContractID)
	}
	if len(body.Points) != 2 {
		t.Errorf("points = %d, want 2", len(body.Points))
	}
}
