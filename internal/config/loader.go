package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PARITYLENS_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load. An empty path skips
// the file and uses defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PARITYLENS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "PARITYLENS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PARITYLENS_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.ApiKey, "PARITYLENS_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "PARITYLENS_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "PARITYLENS_SERVER_RATE_WINDOW")

	// ── Kalshi ──
	setStr(&cfg.Kalshi.BaseURL, "PARITYLENS_KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.ApiKey, "PARITYLENS_KALSHI_API_KEY")
	setStr(&cfg.Kalshi.RsaPrivateKeyPath, "PARITYLENS_KALSHI_RSA_PRIVATE_KEY_PATH")
	setInt(&cfg.Kalshi.PageSize, "PARITYLENS_KALSHI_PAGE_SIZE")
	setInt(&cfg.Kalshi.MaxPages, "PARITYLENS_KALSHI_MAX_PAGES")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "PARITYLENS_POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Polymarket.ClobHost, "PARITYLENS_POLYMARKET_CLOB_HOST")
	setInt(&cfg.Polymarket.PageSize, "PARITYLENS_POLYMARKET_PAGE_SIZE")
	setInt(&cfg.Polymarket.MaxPages, "PARITYLENS_POLYMARKET_MAX_PAGES")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "PARITYLENS_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "PARITYLENS_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PARITYLENS_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PARITYLENS_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PARITYLENS_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PARITYLENS_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PARITYLENS_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PARITYLENS_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PARITYLENS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PARITYLENS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PARITYLENS_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "PARITYLENS_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "PARITYLENS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PARITYLENS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PARITYLENS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PARITYLENS_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PARITYLENS_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PARITYLENS_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "PARITYLENS_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "PARITYLENS_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PARITYLENS_S3_REGION")
	setStr(&cfg.S3.Bucket, "PARITYLENS_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PARITYLENS_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PARITYLENS_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "PARITYLENS_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "PARITYLENS_S3_FORCE_PATH_STYLE")

	// ── Arbitrage ──
	setFloat64(&cfg.Arbitrage.MinSimilarity, "PARITYLENS_ARBITRAGE_MIN_SIMILARITY")
	setFloat64(&cfg.Arbitrage.MinSpreadPct, "PARITYLENS_ARBITRAGE_MIN_SPREAD_PCT")

	// ── Refresh ──
	setDuration(&cfg.Refresh.Interval, "PARITYLENS_REFRESH_INTERVAL")
	setDuration(&cfg.Refresh.CycleTimeout, "PARITYLENS_REFRESH_CYCLE_TIMEOUT")
	setDuration(&cfg.Refresh.FetchTimeout, "PARITYLENS_REFRESH_FETCH_TIMEOUT")
	setInt(&cfg.Refresh.BookTopN, "PARITYLENS_REFRESH_BOOK_TOP_N")
	setInt(&cfg.Refresh.BookRateLimit, "PARITYLENS_REFRESH_BOOK_RATE_LIMIT")
	setDuration(&cfg.Refresh.BookRateWindow, "PARITYLENS_REFRESH_BOOK_RATE_WINDOW")

	// ── Top-level ──
	setStr(&cfg.Mode, "PARITYLENS_MODE")
	setStr(&cfg.LogLevel, "PARITYLENS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
