// Package app provides the top-level application lifecycle for paritylens.
// It wires together stores, caches, platform clients, and services, and
// starts the refresh loop and HTTP API based on the configured operating
// mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cwoodfield/paritylens/internal/config"
	"github.com/cwoodfield/paritylens/internal/pipeline"
	"github.com/cwoodfield/paritylens/internal/server"
	"github.com/cwoodfield/paritylens/internal/server/handler"
	"github.com/cwoodfield/paritylens/internal/server/ws"
	"github.com/cwoodfield/paritylens/internal/service"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the goroutines for the configured mode,
// and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	mode := strings.ToLower(a.cfg.Mode)

	// An idle hub drops frames without blocking, so refresh mode can share
	// the same wiring.
	hub := ws.NewHub(a.logger)

	contractSvc := service.NewContractService(
		deps.Sources,
		deps.ContractStore,
		deps.HistoryStore,
		deps.BookStore,
		deps.SnapshotCache,
		deps.RateLimiter,
		deps.SnapshotArchiver,
		service.ContractConfig{
			FetchTimeout:   a.cfg.Refresh.FetchTimeout.Duration,
			BookTopN:       a.cfg.Refresh.BookTopN,
			BookRateLimit:  a.cfg.Refresh.BookRateLimit,
			BookRateWindow: a.cfg.Refresh.BookRateWindow.Duration,
		},
		a.logger,
	)
	arbSvc := service.NewArbService(
		deps.ContractStore,
		deps.OpportunityStore,
		hub,
		deps.OpportunityArchiver,
		service.ArbConfig{
			MinSimilarity: a.cfg.Arbitrage.MinSimilarity,
			MinSpreadPct:  a.cfg.Arbitrage.MinSpreadPct,
		},
		a.logger,
	)
	bookSvc := service.NewBookService(deps.BookStore)
	historySvc := service.NewHistoryService(deps.HistoryStore)
	dashboardSvc := service.NewDashboardService(deps.ContractStore, deps.OpportunityStore, deps.HistoryStore)

	refresher := pipeline.NewRefresher(contractSvc, arbSvc, hub, pipeline.Config{
		Interval:     a.cfg.Refresh.Interval.Duration,
		CycleTimeout: a.cfg.Refresh.CycleTimeout.Duration,
	}, a.logger)

	switch mode {
	case "refresh":
		// One-shot: run a single cycle and exit.
		return refresher.RunOnce(ctx)

	case "serve", "full":
		srv := server.New(
			server.Config{
				Port:        a.cfg.Server.Port,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				APIKey:      a.cfg.Server.ApiKey,
				RateLimit:   a.cfg.Server.RateLimit,
				RateWindow:  a.cfg.Server.RateWindow.Duration,
			},
			server.Handlers{
				Health:    handler.NewHealthHandler(deps.HealthChecks),
				Contracts: handler.NewContractHandler(contractSvc, historySvc),
				Books:     handler.NewOrderBookHandler(bookSvc),
				Arbitrage: handler.NewArbitrageHandler(arbSvc),
				Dashboard: handler.NewDashboardHandler(dashboardSvc),
				Refresh:   handler.NewRefreshHandler(refresher),
				Hub:       hub,
			},
			deps.RateLimiter,
			a.logger,
		)

		return pipeline.Orchestrate(ctx, hub, srv, refresher)

	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
