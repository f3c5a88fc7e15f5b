package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// defaultChartPoints caps chart series at the most recent samples.
const defaultChartPoints = 50

// HistoryService serves sampled price series.
type HistoryService struct {
	history domain.PriceHistoryStore
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(history domain.PriceHistoryStore) *HistoryService {
	return &HistoryService{history: history}
}

// Recent returns the newest price points for a contract, newest first.
func (s *HistoryService) Recent(ctx context.Context, contractID int64, limit int) ([]domain.PricePoint, error) {
	points, err := s.history.ListByContract(ctx, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("history_service: recent for %d: %w", contractID, err)
	}
	return points, nil
}

// ChartData returns the most recent samples as a chart series, oldest first.
// A non-positive limit uses the default window.
func (s *HistoryService) ChartData(ctx context.Context, contractID int64, limit int) ([]domain.ChartDataPoint, error) {
	if limit <= 0 {
		limit = defaultChartPoints
	}
	points, err := s.history.ListByContract(ctx, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("history_service: chart data for %d: %w", contractID, err)
	}

	out := make([]domain.ChartDataPoint, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		out = append(out, domain.ChartDataPoint{
			Timestamp: p.At.UTC().Format(time.RFC3339),
			Price:     p.Price.Float64(),
			Volume:    p.Volume.Float64(),
		})
	}
	return out, nil
}
