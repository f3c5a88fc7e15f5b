package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwoodfield/paritylens/internal/arbitrage"
	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/match"
)

// Broadcaster pushes evaluation results to connected clients.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// OpportunityArchiver uploads evaluation passes for offline analysis.
type OpportunityArchiver interface {
	ArchiveOpportunities(ctx context.Context, opps []domain.ArbitrageOpportunity, at time.Time) error
}

// ArbConfig tunes cross-platform matching and signal filtering.
type ArbConfig struct {
	// MinSimilarity is the score floor for treating two contracts as the
	// same event.
	MinSimilarity float64
	// MinSpreadPct drops signals whose normalized spread does not exceed it.
	MinSpreadPct float64
}

// ArbService pairs contracts across platforms and turns the pairs into
// arbitrage opportunities.
type ArbService struct {
	contracts domain.ContractStore
	opps      domain.OpportunityStore
	bus       Broadcaster         // nil when no websocket hub is wired
	archiver  OpportunityArchiver // nil when no object store is configured
	cfg       ArbConfig
	logger    *slog.Logger
}

// NewArbService creates an ArbService. bus and archiver may be nil.
func NewArbService(
	contracts domain.ContractStore,
	opps domain.OpportunityStore,
	bus Broadcaster,
	archiver OpportunityArchiver,
	cfg ArbConfig,
	logger *slog.Logger,
) *ArbService {
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = 70
	}
	if cfg.MinSpreadPct <= 0 {
		cfg.MinSpreadPct = 1
	}
	return &ArbService{
		contracts: contracts,
		opps:      opps,
		bus:       bus,
		archiver:  archiver,
		cfg:       cfg,
		logger:    logger,
	}
}

// EvaluatePass matches active Kalshi contracts against active Polymarket
// contracts and replaces the active opportunity set with the pairs whose
// spread clears the floor. Pairs with unpriceable legs are skipped, never
// fatal.
func (s *ArbService) EvaluatePass(ctx context.Context) ([]domain.ArbitrageOpportunity, error) {
	kalshi, err := s.contracts.List(ctx, domain.ContractFilter{Platform: domain.PlatformKalshi, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("arb_service: list kalshi contracts: %w", err)
	}
	poly, err := s.contracts.List(ctx, domain.ContractFilter{Platform: domain.PlatformPolymarket, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("arb_service: list polymarket contracts: %w", err)
	}

	matches := match.Match(kalshi, poly, s.cfg.MinSimilarity)
	now := time.Now()

	candidates := make([]domain.ArbitrageOpportunity, 0, len(matches))
	for _, m := range matches {
		opp, evalErr := arbitrage.Evaluate(m, now)
		if evalErr != nil {
			if errors.Is(evalErr, domain.ErrInvalidPrice) {
				s.logger.WarnContext(ctx, "arb_service: skipping unpriceable pair",
					slog.String("kalshi", m.A.ExternalID),
					slog.String("polymarket", m.B.ExternalID),
				)
				continue
			}
			return nil, fmt.Errorf("arb_service: evaluate: %w", evalErr)
		}
		if opp.SpreadPct > s.cfg.MinSpreadPct {
			candidates = append(candidates, opp)
		}
	}

	// Supersede the previous pass wholesale.
	if err := s.opps.DeactivateAll(ctx); err != nil {
		return nil, fmt.Errorf("arb_service: deactivate previous pass: %w", err)
	}

	inserted := make([]domain.ArbitrageOpportunity, 0, len(candidates))
	for _, opp := range candidates {
		saved, insErr := s.opps.Insert(ctx, opp)
		if insErr != nil {
			return nil, fmt.Errorf("arb_service: insert opportunity: %w", insErr)
		}
		inserted = append(inserted, saved)
	}

	s.logger.InfoContext(ctx, "arb_service: evaluation pass complete",
		slog.Int("matches", len(matches)),
		slog.Int("opportunities", len(inserted)),
	)

	if s.bus != nil {
		s.bus.Broadcast("opportunities", inserted)
	}
	if s.archiver != nil {
		if archErr := s.archiver.ArchiveOpportunities(ctx, inserted, now); archErr != nil {
			s.logger.WarnContext(ctx, "arb_service: opportunity archive failed",
				slog.String("error", archErr.Error()),
			)
		}
	}

	return inserted, nil
}

// ListActive returns the active opportunities joined with both contract
// records. An opportunity whose contracts vanished is dropped from the view.
func (s *ArbService) ListActive(ctx context.Context) ([]domain.EnrichedOpportunity, error) {
	opps, err := s.opps.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("arb_service: list active: %w", err)
	}

	out := make([]domain.EnrichedOpportunity, 0, len(opps))
	for _, opp := range opps {
		k, kErr := s.contracts.GetByID(ctx, opp.KalshiID)
		p, pErr := s.contracts.GetByID(ctx, opp.PolymarketID)
		if kErr != nil || pErr != nil {
			s.logger.WarnContext(ctx, "arb_service: dropping orphaned opportunity",
				slog.Int64("opportunity_id", opp.ID),
			)
			continue
		}
		out = append(out, domain.EnrichedOpportunity{
			ArbitrageOpportunity: opp,
			KalshiContract:       k,
			PolymarketContract:   p,
		})
	}
	return out, nil
}
