// Package service holds the application use cases wired between platform
// clients, the normalizer, and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/ingest"
)

// MarketSource is one platform's market data surface.
type MarketSource interface {
	Platform() domain.Platform
	Contracts(ctx context.Context) ([]domain.RawContract, error)
	OrderBook(ctx context.Context, externalID string) ([]domain.RawOrderBookLevel, error)
}

// SnapshotArchiver uploads raw refresh artifacts for offline analysis.
type SnapshotArchiver interface {
	ArchiveSnapshot(ctx context.Context, snap domain.ContractSnapshot) error
}

// ContractConfig tunes the refresh pipeline.
type ContractConfig struct {
	// FetchTimeout bounds one platform's contract fetch.
	FetchTimeout time.Duration
	// BookTopN caps how many contracts per platform get a book fetch,
	// picked by volume.
	BookTopN int
	// BookRateLimit and BookRateWindow gate book fetches per platform.
	BookRateLimit  int
	BookRateWindow time.Duration
}

// PlatformResult reports one platform's outcome within a refresh.
type PlatformResult struct {
	Platform  domain.Platform `json:"platform"`
	Contracts int             `json:"contracts"`
	Books     int             `json:"books"`
	Stale     bool            `json:"stale"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Error     string          `json:"error,omitempty"`
}

// RefreshResult is the summary of one full refresh pass.
type RefreshResult struct {
	Platforms []PlatformResult `json:"platforms"`
	StartedAt time.Time        `json:"startedAt"`
	Duration  time.Duration    `json:"duration"`
}

// ContractService fetches, normalizes, and persists contracts and books from
// every configured platform.
type ContractService struct {
	sources   []MarketSource
	contracts domain.ContractStore
	history   domain.PriceHistoryStore
	books     domain.OrderBookStore
	snapshots domain.SnapshotCache
	limiter   domain.RateLimiter
	archiver  SnapshotArchiver // nil when no object store is configured
	cfg       ContractConfig
	logger    *slog.Logger
}

// NewContractService creates a ContractService. archiver may be nil.
func NewContractService(
	sources []MarketSource,
	contracts domain.ContractStore,
	history domain.PriceHistoryStore,
	books domain.OrderBookStore,
	snapshots domain.SnapshotCache,
	limiter domain.RateLimiter,
	archiver SnapshotArchiver,
	cfg ContractConfig,
	logger *slog.Logger,
) *ContractService {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.BookTopN <= 0 {
		cfg.BookTopN = 10
	}
	return &ContractService{
		sources:   sources,
		contracts: contracts,
		history:   history,
		books:     books,
		snapshots: snapshots,
		limiter:   limiter,
		archiver:  archiver,
		cfg:       cfg,
		logger:    logger,
	}
}

// Refresh pulls contracts from every platform in parallel. A failing platform
// falls back to its last-good snapshot, marked stale; the other platforms are
// unaffected. Refresh only fails when every platform yields nothing at all.
func (s *ContractService) Refresh(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	results := make([]PlatformResult, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.refreshPlatform(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	res := RefreshResult{
		Platforms: results,
		StartedAt: start,
		Duration:  time.Since(start),
	}

	total := 0
	for _, pr := range results {
		total += pr.Contracts
	}
	if total == 0 {
		return res, fmt.Errorf("contract_service: refresh: no platform produced contracts")
	}

	s.logger.InfoContext(ctx, "contract_service: refresh complete",
		slog.Int("contracts", total),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *ContractService) refreshPlatform(ctx context.Context, src MarketSource) PlatformResult {
	platform := src.Platform()
	pr := PlatformResult{Platform: platform}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	raws, err := src.Contracts(fetchCtx)
	cancel()

	now := time.Now()
	var contracts []domain.Contract

	switch {
	case err == nil:
		contracts = ingest.NormalizeBatch(raws, now, s.logger)
		pr.FetchedAt = now

		snap := domain.ContractSnapshot{Platform: platform, Contracts: contracts, FetchedAt: now}
		if cacheErr := s.snapshots.SetContracts(ctx, snap); cacheErr != nil {
			s.logger.WarnContext(ctx, "contract_service: snapshot cache write failed",
				slog.String("platform", string(platform)),
				slog.String("error", cacheErr.Error()),
			)
		}
		if s.archiver != nil {
			if archErr := s.archiver.ArchiveSnapshot(ctx, snap); archErr != nil {
				s.logger.WarnContext(ctx, "contract_service: snapshot archive failed",
					slog.String("platform", string(platform)),
					slog.String("error", archErr.Error()),
				)
			}
		}

	default:
		s.logger.WarnContext(ctx, "contract_service: platform fetch failed, trying snapshot",
			slog.String("platform", string(platform)),
			slog.String("error", err.Error()),
		)
		pr.Error = err.Error()

		snap, cacheErr := s.snapshots.GetContracts(ctx, platform)
		if cacheErr != nil {
			s.logger.ErrorContext(ctx, "contract_service: no snapshot to fall back to",
				slog.String("platform", string(platform)),
				slog.String("error", cacheErr.Error()),
			)
			return pr
		}
		contracts = snap.Contracts
		pr.Stale = true
		pr.FetchedAt = snap.FetchedAt
	}

	stored := make([]domain.Contract, 0, len(contracts))
	for _, c := range contracts {
		saved, upErr := s.contracts.Upsert(ctx, c)
		if upErr != nil {
			s.logger.WarnContext(ctx, "contract_service: upsert failed",
				slog.String("platform", string(platform)),
				slog.String("external_id", c.ExternalID),
				slog.String("error", upErr.Error()),
			)
			continue
		}
		stored = append(stored, saved)

		// Stale snapshots were already sampled when they were fresh.
		if !pr.Stale {
			if _, hErr := s.history.Append(ctx, domain.PricePoint{
				ContractID: saved.ID,
				Price:      saved.Price,
				Volume:     saved.Volume,
				At:         now,
			}); hErr != nil {
				s.logger.WarnContext(ctx, "contract_service: history append failed",
					slog.Int64("contract_id", saved.ID),
					slog.String("error", hErr.Error()),
				)
			}
		}
	}
	pr.Contracts = len(stored)

	if !pr.Stale {
		pr.Books = s.refreshBooks(ctx, src, stored)
	}
	return pr
}

// refreshBooks fetches books for the highest-volume contracts of one
// platform, honoring the per-platform rate limit. Book failures are isolated
// per contract.
func (s *ContractService) refreshBooks(ctx context.Context, src MarketSource, contracts []domain.Contract) int {
	top := make([]domain.Contract, len(contracts))
	copy(top, contracts)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Volume > top[j].Volume })
	if len(top) > s.cfg.BookTopN {
		top = top[:s.cfg.BookTopN]
	}

	platform := src.Platform()
	fetched := 0
	for _, c := range top {
		if s.cfg.BookRateLimit > 0 {
			allowed, err := s.limiter.Allow(ctx, "books:"+string(platform), s.cfg.BookRateLimit, s.cfg.BookRateWindow)
			if err != nil {
				s.logger.WarnContext(ctx, "contract_service: rate limiter error",
					slog.String("platform", string(platform)),
					slog.String("error", err.Error()),
				)
			} else if !allowed {
				s.logger.InfoContext(ctx, "contract_service: book fetch budget exhausted",
					slog.String("platform", string(platform)),
					slog.Int("fetched", fetched),
				)
				break
			}
		}

		raws, err := src.OrderBook(ctx, c.ExternalID)
		if err != nil {
			s.logger.WarnContext(ctx, "contract_service: book fetch failed",
				slog.String("platform", string(platform)),
				slog.String("external_id", c.ExternalID),
				slog.String("error", err.Error()),
			)
			continue
		}

		levels := ingest.NormalizeLevels(c.ID, raws, s.logger)
		if err := s.books.Replace(ctx, c.ID, levels); err != nil {
			s.logger.WarnContext(ctx, "contract_service: book replace failed",
				slog.Int64("contract_id", c.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		// An empty book still replaces (clearing any stale levels) but does
		// not count toward coverage.
		if len(levels) > 0 {
			fetched++
		}
	}
	return fetched
}

// List returns contracts matching the filter.
func (s *ContractService) List(ctx context.Context, f domain.ContractFilter) ([]domain.Contract, error) {
	contracts, err := s.contracts.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("contract_service: list: %w", err)
	}
	return contracts, nil
}

// Get returns one contract by its store ID.
func (s *ContractService) Get(ctx context.Context, id int64) (domain.Contract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Contract{}, err
		}
		return domain.Contract{}, fmt.Errorf("contract_service: get %d: %w", id, err)
	}
	return c, nil
}
