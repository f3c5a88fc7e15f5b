package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cwoodfield/paritylens/internal/domain"
)

// topPerformerCount is how many movers the overview shows.
const topPerformerCount = 3

// DashboardService assembles the headline dashboard views.
type DashboardService struct {
	contracts domain.ContractStore
	opps      domain.OpportunityStore
	history   domain.PriceHistoryStore
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	contracts domain.ContractStore,
	opps domain.OpportunityStore,
	history domain.PriceHistoryStore,
) *DashboardService {
	return &DashboardService{
		contracts: contracts,
		opps:      opps,
		history:   history,
	}
}

// Stats returns the headline summary: total volume across all contracts,
// active contract and opportunity counts, and mean liquidity.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	contracts, err := s.contracts.List(ctx, domain.ContractFilter{})
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard_service: list contracts: %w", err)
	}
	opps, err := s.opps.ListActive(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard_service: list opportunities: %w", err)
	}

	var totalVolume, totalLiquidity float64
	active := 0
	for _, c := range contracts {
		totalVolume += c.Volume.Float64()
		totalLiquidity += c.Liquidity.Float64()
		if c.Active {
			active++
		}
	}
	avgLiquidity := 0.0
	if len(contracts) > 0 {
		avgLiquidity = totalLiquidity / float64(len(contracts))
	}

	return domain.DashboardStats{
		TotalVolume:            fmt.Sprintf("$%.1fM", totalVolume/1_000_000),
		ActiveContracts:        active,
		ArbitrageOpportunities: len(opps),
		AvgLiquidity:           fmt.Sprintf("$%.1fK", avgLiquidity/1_000),
	}, nil
}

// Overview returns the category breakdown and the biggest recent movers.
func (s *DashboardService) Overview(ctx context.Context) (domain.MarketOverview, error) {
	contracts, err := s.contracts.List(ctx, domain.ContractFilter{})
	if err != nil {
		return domain.MarketOverview{}, fmt.Errorf("dashboard_service: list contracts: %w", err)
	}

	overview := domain.MarketOverview{
		SectorBreakdown: sectorBreakdown(contracts),
		TopPerformers:   s.topPerformers(ctx, contracts),
	}
	return overview, nil
}

// sectorBreakdown counts contracts per category as whole-percent shares.
func sectorBreakdown(contracts []domain.Contract) []domain.SectorShare {
	if len(contracts) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, c := range contracts {
		counts[c.Category]++
	}

	out := make([]domain.SectorShare, 0, len(counts))
	for sector, count := range counts {
		out = append(out, domain.SectorShare{
			Sector:     sector,
			Percentage: int(math.Round(float64(count) / float64(len(contracts)) * 100)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Sector < out[j].Sector
	})
	return out
}

// topPerformers ranks contracts by the size of their move between the two
// most recent samples. Contracts with fewer than two samples never rank.
func (s *DashboardService) topPerformers(ctx context.Context, contracts []domain.Contract) []domain.Performer {
	type mover struct {
		name   string
		change float64
	}

	var movers []mover
	for _, c := range contracts {
		points, err := s.history.ListByContract(ctx, c.ID, 2)
		if err != nil || len(points) < 2 {
			continue
		}
		prev := points[1].Price.Float64()
		if prev == 0 {
			continue
		}
		change := (points[0].Price.Float64() - prev) / prev * 100
		movers = append(movers, mover{name: c.Title, change: change})
	}

	sort.Slice(movers, func(i, j int) bool {
		return math.Abs(movers[i].change) > math.Abs(movers[j].change)
	})
	if len(movers) > topPerformerCount {
		movers = movers[:topPerformerCount]
	}

	out := make([]domain.Performer, 0, len(movers))
	for _, m := range movers {
		out = append(out, domain.Performer{
			Name:   m.name,
			Change: fmt.Sprintf("%+.1f%%", m.change),
		})
	}
	return out
}
