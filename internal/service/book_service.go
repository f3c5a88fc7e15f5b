package service

import (
	"context"
	"fmt"

	"github.com/cwoodfield/paritylens/internal/analytics"
	"github.com/cwoodfield/paritylens/internal/domain"
)

// BookService serves order book snapshots and their derived analytics.
type BookService struct {
	books domain.OrderBookStore
}

// NewBookService creates a BookService.
func NewBookService(books domain.OrderBookStore) *BookService {
	return &BookService{books: books}
}

// Levels returns the raw book snapshot for one contract. A contract without
// a book yields an empty slice, not an error.
func (s *BookService) Levels(ctx context.Context, contractID int64) ([]domain.OrderBookLevel, error) {
	levels, err := s.books.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("book_service: levels for %d: %w", contractID, err)
	}
	return levels, nil
}

// Analytics returns the derived view for one contract's book. Thin or missing
// books produce the zero-valued view.
func (s *BookService) Analytics(ctx context.Context, contractID int64) (domain.OrderBookAnalytics, error) {
	levels, err := s.books.ListByContract(ctx, contractID)
	if err != nil {
		return domain.OrderBookAnalytics{}, fmt.Errorf("book_service: analytics for %d: %w", contractID, err)
	}
	return analytics.Analyze(contractID, levels), nil
}

// LiquidityMetrics aggregates liquidity quality over every tracked book.
func (s *BookService) LiquidityMetrics(ctx context.Context) (domain.LiquidityMetrics, error) {
	ids, err := s.books.ContractIDs(ctx)
	if err != nil {
		return domain.LiquidityMetrics{}, fmt.Errorf("book_service: contract ids: %w", err)
	}

	books := make([][]domain.OrderBookLevel, 0, len(ids))
	for _, id := range ids {
		levels, err := s.books.ListByContract(ctx, id)
		if err != nil {
			return domain.LiquidityMetrics{}, fmt.Errorf("book_service: levels for %d: %w", id, err)
		}
		books = append(books, levels)
	}
	return analytics.Liquidity(books), nil
}
