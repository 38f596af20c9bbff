package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Token store backends selectable through AUTH_TOKEN_STORE.
const (
	TokenStoreAuto     = "auto"
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"
	TokenStoreMemory   = "memory"
)

// bcrypt input limit, mirrored from auth.MaxSecretBytes.
const maxSecretBytes = 72

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string `env:"APP_NAME" envDefault:"statistic-api"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Host    string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port    string `env:"APP_PORT" envDefault:"8080"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

// HTTPConfig holds transport level knobs.
type HTTPConfig struct {
	RequestTimeoutSeconds  int      `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	CORSOrigins            []string `env:"HTTP_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	TokenRateLimit         int      `env:"HTTP_TOKEN_RATE_LIMIT" envDefault:"30"`
	TokenRateWindowSeconds int      `env:"HTTP_TOKEN_RATE_WINDOW_SECONDS" envDefault:"60"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	TokenStore             string `env:"AUTH_TOKEN_STORE" envDefault:"auto"`
	TokenTTLSeconds        int    `env:"AUTH_TOKEN_TTL_SECONDS" envDefault:"300"`
	SlidingRenewal         bool   `env:"AUTH_SLIDING_RENEWAL" envDefault:"true"`
	StoreTimeoutMillis     int    `env:"AUTH_STORE_TIMEOUT_MS" envDefault:"2000"`
	CleanupIntervalSeconds int    `env:"AUTH_CLEANUP_INTERVAL_SECONDS" envDefault:"60"`
	BcryptCost             int    `env:"AUTH_BCRYPT_COST" envDefault:"10"`
	DemoClientID           string `env:"AUTH_DEMO_CLIENT_ID" envDefault:"demo-client"`
	DemoClientSecret       string `env:"AUTH_DEMO_CLIENT_SECRET" envDefault:"demo-secret"`
	AdminKey               string `env:"AUTH_ADMIN_KEY"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Auth.TokenStore = strings.ToLower(strings.TrimSpace(cfg.Auth.TokenStore))
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.TokenStore {
	case TokenStoreAuto, TokenStoreMemory, TokenStoreRedis:
	case TokenStorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("AUTH_TOKEN_STORE=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown AUTH_TOKEN_STORE %q", c.Auth.TokenStore)
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL_SECONDS must be positive, got %d", c.Auth.TokenTTLSeconds)
	}
	if c.Auth.DemoClientID != "" && c.Auth.DemoClientSecret == "" {
		return fmt.Errorf("AUTH_DEMO_CLIENT_SECRET is required when AUTH_DEMO_CLIENT_ID is set")
	}
	if len(c.Auth.DemoClientSecret) > maxSecretBytes {
		return fmt.Errorf("AUTH_DEMO_CLIENT_SECRET must be at most %d bytes", maxSecretBytes)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (h HTTPConfig) RequestTimeout() time.Duration {
	if h.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.RequestTimeoutSeconds) * time.Second
}

// TokenRateWindow returns the limiter window for the issuance endpoint.
func (h HTTPConfig) TokenRateWindow() time.Duration {
	if h.TokenRateWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(h.TokenRateWindowSeconds) * time.Second
}

// TokenTTL returns the token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

// StoreTimeout returns the deadline applied to each store call.
func (a AuthConfig) StoreTimeout() time.Duration {
	if a.StoreTimeoutMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(a.StoreTimeoutMillis) * time.Millisecond
}

// CleanupInterval returns the cadence of the expired token sweep.
func (a AuthConfig) CleanupInterval() time.Duration {
	if a.CleanupIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(a.CleanupIntervalSeconds) * time.Second
}

// ResolveTokenStore picks the concrete token backend for "auto".
func (c *Config) ResolveTokenStore() string {
	if c.Auth.TokenStore != TokenStoreAuto && c.Auth.TokenStore != "" {
		return c.Auth.TokenStore
	}
	if c.Postgres.DSN != "" {
		return TokenStorePostgres
	}
	return TokenStoreMemory
}
