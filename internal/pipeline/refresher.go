// Package pipeline drives the periodic refresh cycle: pull contracts and
// order books from both venues, then re-evaluate arbitrage opportunities
// against the fresh data.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/service"
)

// ContractRefresher pulls fresh contract and book data from the venues.
type ContractRefresher interface {
	Refresh(ctx context.Context) (service.RefreshResult, error)
}

// OpportunityEvaluator re-runs matching and arbitrage evaluation over the
// stored contracts.
type OpportunityEvaluator interface {
	EvaluatePass(ctx context.Context) ([]domain.ArbitrageOpportunity, error)
}

// Config controls the refresh loop.
type Config struct {
	// Interval between refresh cycles.
	Interval time.Duration

	// CycleTimeout bounds a single refresh plus evaluation pass.
	CycleTimeout time.Duration
}

// Defaults fills in zero fields.
func (c *Config) Defaults() {
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = 2 * time.Minute
	}
}

// Refresher runs the refresh cycle on a fixed interval.
type Refresher struct {
	contracts ContractRefresher
	arb       OpportunityEvaluator
	bus       service.Broadcaster // nil when no websocket hub is wired
	cfg       Config
	logger    *slog.Logger
}

var _ Runner = (*Refresher)(nil)

// NewRefresher creates a refresh loop. bus may be nil.
func NewRefresher(contracts ContractRefresher, arb OpportunityEvaluator, bus service.Broadcaster, cfg Config, logger *slog.Logger) *Refresher {
	cfg.Defaults()
	return &Refresher{
		contracts: contracts,
		arb:       arb,
		bus:       bus,
		cfg:       cfg,
		logger:    logger,
	}
}

// RunOnce performs a single refresh cycle. The evaluation pass still runs
// when the refresh partially fails: stale snapshot data is better matched
// than not matched at all. Only a refresh that yields no contracts anywhere
// aborts the cycle.
func (r *Refresher) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.CycleTimeout)
	defer cancel()

	start := time.Now()

	res, err := r.contracts.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: refresh contracts: %w", err)
	}

	opps, err := r.arb.EvaluatePass(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: evaluate opportunities: %w", err)
	}

	if r.bus != nil {
		r.bus.Broadcast("refresh", res)
	}

	total := 0
	for _, pr := range res.Platforms {
		total += pr.Contracts
	}
	r.logger.InfoContext(ctx, "refresh cycle complete",
		slog.Int("contracts", total),
		slog.Int("opportunities", len(opps)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Run runs an immediate cycle, then repeats on the configured interval
// until the context is cancelled. Cycle errors are logged, not returned; the
// loop only exits on cancellation.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting refresh loop",
		slog.Duration("interval", r.cfg.Interval),
	)

	if err := r.RunOnce(ctx); err != nil {
		r.logger.ErrorContext(ctx, "refresh cycle failed",
			slog.String("error", err.Error()),
		)
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "refresh loop stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "refresh cycle failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Runner is a long-lived background task managed by Orchestrate.
type Runner interface {
	Run(ctx context.Context) error
}

// Orchestrate runs tasks until the first one fails with an error other than
// context cancellation, then cancels the rest and waits for them to exit.
func Orchestrate(ctx context.Context, tasks ...Runner) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			if err := t.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
