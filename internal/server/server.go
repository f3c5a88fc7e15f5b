// Package server wires the HTTP API: routes, middleware, and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/server/handler"
	"github.com/cwoodfield/paritylens/internal/server/middleware"
	"github.com/cwoodfield/paritylens/internal/server/ws"
)

// Config holds the HTTP server settings.
type Config struct {
	Port        int
	CORSOrigins []string

	// APIKey protects the data endpoints when set. Empty disables auth.
	APIKey string

	// RateLimit is requests per client per RateWindow. Zero disables
	// HTTP-level limiting.
	RateLimit  int
	RateWindow time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Defaults fills in zero fields.
func (c *Config) Defaults() {
	if c.Port <= 0 {
		c.Port = 8080
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Handlers aggregates everything the router serves.
type Handlers struct {
	Health    *handler.HealthHandler
	Contracts *handler.ContractHandler
	Books     *handler.OrderBookHandler
	Arbitrage *handler.ArbitrageHandler
	Dashboard *handler.DashboardHandler
	Refresh   *handler.RefreshHandler
	Hub       *ws.Hub
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	cfg        Config
	logger     *slog.Logger
}

// New builds the server with its full route table and middleware chain.
func New(cfg Config, h Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	cfg.Defaults()

	mux := http.NewServeMux()

	// The health probe and the WebSocket upgrade stay outside auth; browsers
	// cannot attach headers to a WebSocket handshake and load balancers
	// probe unauthenticated.
	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.HandleFunc("GET /ws", h.Hub.HandleWS)

	protect := middleware.Auth(cfg.APIKey)
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}

	route("GET /api/contracts", h.Contracts.List)
	route("GET /api/contracts/{id}", h.Contracts.Get)
	route("GET /api/contracts/{id}/price-history", h.Contracts.PriceHistory)
	route("GET /api/contracts/{id}/chart-data", h.Contracts.ChartData)
	route("GET /api/contracts/{id}/order-book", h.Books.Levels)
	route("GET /api/contracts/{id}/order-book-analytics", h.Books.Analytics)
	route("GET /api/arbitrage/opportunities", h.Arbitrage.ListActive)
	route("GET /api/dashboard/stats", h.Dashboard.Stats)
	route("GET /api/market/overview", h.Dashboard.Overview)
	route("GET /api/liquidity/metrics", h.Books.Liquidity)
	route("POST /api/refresh", h.Refresh.Trigger)

	var root http.Handler = mux
	root = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow, logger)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.CORS(cfg.CORSOrigins)(root)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      root,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
