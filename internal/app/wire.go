package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	s3blob "github.com/cwoodfield/paritylens/internal/blob/s3"
	cachemem "github.com/cwoodfield/paritylens/internal/cache/memory"
	"github.com/cwoodfield/paritylens/internal/cache/redis"
	"github.com/cwoodfield/paritylens/internal/config"
	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/platform/kalshi"
	"github.com/cwoodfield/paritylens/internal/platform/polymarket"
	"github.com/cwoodfield/paritylens/internal/server/handler"
	"github.com/cwoodfield/paritylens/internal/service"
	storemem "github.com/cwoodfield/paritylens/internal/store/memory"
	"github.com/cwoodfield/paritylens/internal/store/postgres"
)

// Dependencies bundles every domain-level dependency the application modes
// need. It is constructed by Wire and torn down by the returned cleanup
// function.
type Dependencies struct {
	// Stores. Contracts, books, and opportunities are rebuilt every refresh
	// cycle and live in memory; price history optionally persists to
	// Postgres.
	ContractStore    domain.ContractStore
	HistoryStore     domain.PriceHistoryStore
	BookStore        domain.OrderBookStore
	OpportunityStore domain.OpportunityStore

	// Caches
	SnapshotCache domain.SnapshotCache
	RateLimiter   domain.RateLimiter

	// Platform clients wrapped as sources for the refresh pipeline.
	Sources []service.MarketSource

	// Blob archivers, nil when S3 is disabled.
	SnapshotArchiver    service.SnapshotArchiver
	OpportunityArchiver service.OpportunityArchiver

	// HealthChecks probe the optional external dependencies.
	HealthChecks map[string]handler.HealthCheck
}

// kalshiSource adapts the Kalshi client to the refresh pipeline.
type kalshiSource struct {
	client   *kalshi.Client
	pageSize int
	maxPages int
}

func (s *kalshiSource) Platform() domain.Platform { return domain.PlatformKalshi }

func (s *kalshiSource) Contracts(ctx context.Context) ([]domain.RawContract, error) {
	return s.client.FetchContracts(ctx, s.pageSize, s.maxPages)
}

func (s *kalshiSource) OrderBook(ctx context.Context, externalID string) ([]domain.RawOrderBookLevel, error) {
	return s.client.FetchOrderBook(ctx, externalID)
}

// polymarketSource adapts the Gamma and CLOB clients to the refresh
// pipeline.
type polymarketSource struct {
	gamma    *polymarket.GammaClient
	clob     *polymarket.ClobClient
	pageSize int
	maxPages int
}

func (s *polymarketSource) Platform() domain.Platform { return domain.PlatformPolymarket }

func (s *polymarketSource) Contracts(ctx context.Context) ([]domain.RawContract, error) {
	return s.gamma.FetchContracts(ctx, s.pageSize, s.maxPages)
}

func (s *polymarketSource) OrderBook(ctx context.Context, externalID string) ([]domain.RawOrderBookLevel, error) {
	return s.clob.FetchOrderBook(ctx, externalID)
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		ContractStore:    storemem.NewContractStore(),
		BookStore:        storemem.NewOrderBookStore(),
		OpportunityStore: storemem.NewOpportunityStore(),
		HealthChecks:     make(map[string]handler.HealthCheck),
	}

	// --- Price history: Postgres when enabled, else in-memory ---
	if cfg.Postgres.Enabled {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.HistoryStore = postgres.NewHistoryStore(pgClient.Pool())
		deps.HealthChecks["postgres"] = pgClient.Ping
		logger.InfoContext(ctx, "wired postgres history store",
			slog.String("host", cfg.Postgres.Host),
		)
	} else {
		deps.HistoryStore = storemem.NewHistoryStore()
	}

	// --- Snapshot cache and rate limiter: Redis when enabled ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.SnapshotCache = redis.NewSnapshotCache(redisClient)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.HealthChecks["redis"] = redisClient.Ping
		logger.InfoContext(ctx, "wired redis cache",
			slog.String("addr", cfg.Redis.Addr),
		)
	} else {
		deps.SnapshotCache = cachemem.NewSnapshotCache()
		deps.RateLimiter = cachemem.NewRateLimiter()
	}

	// --- S3 archivers: full mode only ---
	if cfg.S3.Enabled && strings.ToLower(cfg.Mode) == "full" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		archiver := s3blob.NewArchiver(s3blob.NewWriter(s3Client))
		deps.SnapshotArchiver = archiver
		deps.OpportunityArchiver = archiver
		deps.HealthChecks["s3"] = s3Client.Health
		logger.InfoContext(ctx, "wired s3 archiver",
			slog.String("bucket", cfg.S3.Bucket),
		)
	}

	// --- Platform clients ---
	kalshiClient := kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKey)
	if cfg.Kalshi.RsaPrivateKeyPath != "" {
		pemBytes, err := os.ReadFile(cfg.Kalshi.RsaPrivateKeyPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: read kalshi rsa key: %w", err)
		}
		if err := kalshiClient.SetRSAPrivateKey(pemBytes); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: kalshi rsa key: %w", err)
		}
	}

	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost)
	clob := polymarket.NewClobClient(cfg.Polymarket.ClobHost, gamma)

	deps.Sources = []service.MarketSource{
		&kalshiSource{
			client:   kalshiClient,
			pageSize: cfg.Kalshi.PageSize,
			maxPages: cfg.Kalshi.MaxPages,
		},
		&polymarketSource{
			gamma:    gamma,
			clob:     clob,
			pageSize: cfg.Polymarket.PageSize,
			maxPages: cfg.Polymarket.MaxPages,
		},
	}

	return deps, cleanup, nil
}
