// Package config defines the top-level configuration for paritylens and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PARITYLENS_* environment
// variables.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Arbitrage  ArbitrageConfig  `toml:"arbitrage"`
	Refresh    RefreshConfig    `toml:"refresh"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	ApiKey      string   `toml:"api_key"`
	RateLimit   int      `toml:"rate_limit"`
	RateWindow  duration `toml:"rate_window"`
}

// KalshiConfig holds Kalshi exchange API parameters. The RSA key is only
// needed for authenticated endpoints; market data works without it.
type KalshiConfig struct {
	BaseURL           string `toml:"base_url"`
	ApiKey            string `toml:"api_key"`
	RsaPrivateKeyPath string `toml:"rsa_private_key_path"`
	PageSize          int    `toml:"page_size"`
	MaxPages          int    `toml:"max_pages"`
}

// PolymarketConfig holds Polymarket Gamma and CLOB endpoints.
type PolymarketConfig struct {
	GammaHost string `toml:"gamma_host"`
	ClobHost  string `toml:"clob_host"`
	PageSize  int    `toml:"page_size"`
	MaxPages  int    `toml:"max_pages"`
}

// PostgresConfig holds PostgreSQL connection parameters for durable price
// history. Disabled keeps history in memory only.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the snapshot cache and
// rate limiter. Disabled falls back to in-process equivalents.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for snapshot and
// opportunity archives. Disabled skips archiving.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ArbitrageConfig holds matching and signal thresholds.
type ArbitrageConfig struct {
	// MinSimilarity is the 0-100 score floor for pairing contracts across
	// platforms.
	MinSimilarity float64 `toml:"min_similarity"`
	// MinSpreadPct drops opportunities whose spread does not exceed it.
	MinSpreadPct float64 `toml:"min_spread_pct"`
}

// RefreshConfig holds the periodic refresh cycle parameters.
type RefreshConfig struct {
	Interval       duration `toml:"interval"`
	CycleTimeout   duration `toml:"cycle_timeout"`
	FetchTimeout   duration `toml:"fetch_timeout"`
	BookTopN       int      `toml:"book_top_n"`
	BookRateLimit  int      `toml:"book_rate_limit"`
	BookRateWindow duration `toml:"book_rate_window"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration. Every field a fresh checkout
// needs to run in-memory against the public APIs is populated.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:       8080,
			RateLimit:  300,
			RateWindow: duration{time.Minute},
		},
		Kalshi: KalshiConfig{
			BaseURL:  "https://api.elections.kalshi.com/trade-api/v2",
			PageSize: 200,
			MaxPages: 5,
		},
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			ClobHost:  "https://clob.polymarket.com",
			PageSize:  200,
			MaxPages:  5,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "paritylens",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   20,
			MaxRetries: 3,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "paritylens-data",
			ForcePathStyle: true,
		},
		Arbitrage: ArbitrageConfig{
			MinSimilarity: 70,
			MinSpreadPct:  1,
		},
		Refresh: RefreshConfig{
			Interval:       duration{60 * time.Second},
			CycleTimeout:   duration{2 * time.Minute},
			FetchTimeout:   duration{30 * time.Second},
			BookTopN:       10,
			BookRateLimit:  30,
			BookRateWindow: duration{time.Minute},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"serve":   true, // HTTP API plus the periodic refresh loop
	"refresh": true, // one refresh cycle, then exit
	"full":    true, // serve plus S3 archiving
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for inconsistencies and returns a single
// error listing everything wrong.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, refresh, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}

	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}

	if c.Postgres.Enabled && c.Postgres.DSN == "" {
		if c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "" {
			errs = append(errs, "postgres: host, database, and user are required when enabled without a dsn")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			errs = append(errs, "s3: access_key and secret_key must be set together")
		}
	}

	if c.Arbitrage.MinSimilarity < 0 || c.Arbitrage.MinSimilarity > 100 {
		errs = append(errs, fmt.Sprintf("arbitrage: min_similarity %.1f out of range [0,100]", c.Arbitrage.MinSimilarity))
	}
	if c.Arbitrage.MinSpreadPct < 0 {
		errs = append(errs, "arbitrage: min_spread_pct must not be negative")
	}

	if c.Refresh.Interval.Duration <= 0 {
		errs = append(errs, "refresh: interval must be positive")
	}
	if c.Refresh.CycleTimeout.Duration <= 0 {
		errs = append(errs, "refresh: cycle_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
