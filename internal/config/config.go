package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/sportsstore/pkg/config"
	"github.com/utafrali/sportsstore/pkg/database"
	"github.com/utafrali/sportsstore/pkg/httpclient"
	"github.com/utafrali/sportsstore/pkg/middleware"
	"github.com/utafrali/sportsstore/pkg/tracing"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"sportsstore"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"sportsstore"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"sportsstore"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Connection pool
	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	SlowQueryMS       int           `env:"LOG_SLOW_QUERY_MS" envDefault:"200"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session (default: 7 days)
	SessionTTLHours     int    `env:"SESSION_TTL_HOURS" envDefault:"168"`
	SessionCookieName   string `env:"SESSION_COOKIE_NAME" envDefault:"sportsstore_session"`
	SessionCookieSecure bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Catalog
	CatalogPageSize int    `env:"CATALOG_PAGE_SIZE" envDefault:"4"`
	SeedCatalogFile string `env:"SEED_CATALOG_FILE" envDefault:""`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret           string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`

	// Login throttling (0 RPS disables it)
	LoginRateLimitRPS   float64 `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"1"`
	LoginRateLimitBurst int     `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"5"`

	// Seeded admin identity
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"Admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"Secret123$"`

	// Shipping verifier (empty URL disables it)
	ShippingVerifierURL     string        `env:"SHIPPING_VERIFIER_URL" envDefault:""`
	ShippingVerifierTimeout time.Duration `env:"SHIPPING_VERIFIER_TIMEOUT" envDefault:"3s"`
	CBFailureRatio          float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests           uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`
	CBOpenTimeout           time.Duration `env:"CB_OPEN_TIMEOUT" envDefault:"30s"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELExporter   string  `env:"OTEL_EXPORTER" envDefault:"otlp"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// pprof
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables, after loading any
// of envFiles that exist.
func Load(envFiles ...string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg, envFiles...); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StorageDriver != StoragePostgres && c.StorageDriver != StorageMemory {
		return fmt.Errorf("invalid STORAGE_DRIVER %q: must be %q or %q", c.StorageDriver, StoragePostgres, StorageMemory)
	}
	if c.CatalogPageSize < 1 {
		return fmt.Errorf("invalid CATALOG_PAGE_SIZE: %d", c.CatalogPageSize)
	}
	if c.SessionTTLHours < 0 {
		return fmt.Errorf("invalid SESSION_TTL_HOURS: %d", c.SessionTTLHours)
	}
	if c.RedisPort < 1 || c.RedisPort > 65535 {
		return fmt.Errorf("invalid REDIS_PORT: %d", c.RedisPort)
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v (must be between 0 and 1)", c.OTELSampleRate)
	}
	if c.OTELExporter != tracing.ExporterOTLP && c.OTELExporter != tracing.ExporterStdout {
		return fmt.Errorf("invalid OTEL_EXPORTER %q", c.OTELExporter)
	}
	if c.LoginRateLimitRPS < 0 || c.LoginRateLimitBurst < 0 {
		return fmt.Errorf("invalid login rate limit: %v rps, burst %d", c.LoginRateLimitRPS, c.LoginRateLimitBurst)
	}
	if c.JWTAccessTTLMinutes < 1 {
		return fmt.Errorf("invalid JWT_ACCESS_TTL_MINUTES: %d", c.JWTAccessTTLMinutes)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// SessionTTL is how long an idle session cart is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// JWTAccessTTL is the lifetime of an admin access token.
func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

// Postgres returns the pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: c.DBMaxConnLifetime,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
	}
}

// Redis returns the Redis connection configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPass,
		DB:       c.RedisDB,
	}
}

// CORS returns the CORS middleware configuration.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	cors.AllowCredentials = true
	cors.Environment = c.Environment
	return cors
}

// LoginRateLimit returns the per-IP throttle applied to the login endpoint.
func (c *Config) LoginRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		RPS:     c.LoginRateLimitRPS,
		Burst:   c.LoginRateLimitBurst,
		IdleTTL: 10 * time.Minute,
	}
}

// Tracing returns the tracer configuration.
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "1.0.0",
		Environment:    c.Environment,
		Exporter:       c.OTELExporter,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}

// ShippingVerifierClient returns the HTTP client configuration for the verifier.
func (c *Config) ShippingVerifierClient() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = c.ShippingVerifierTimeout
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = 100 * time.Millisecond
	cfg.RetryWaitMax = 500 * time.Millisecond
	return cfg
}

// ShippingVerifierBreaker returns the circuit breaker configuration for the verifier.
func (c *Config) ShippingVerifierBreaker() httpclient.CircuitBreakerConfig {
	cb := httpclient.DefaultCircuitBreakerConfig("shipping-verifier")
	cb.FailureRatio = c.CBFailureRatio
	cb.MinRequests = c.CBMinRequests
	cb.Timeout = c.CBOpenTimeout
	return cb
}
