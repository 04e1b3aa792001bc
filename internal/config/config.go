// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Source kinds understood by the catalog.
const (
	SourceJSON      = "json"
	SourcePostgres  = "postgres"
	SourcePostgREST = "postgrest"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server       ServerConfig
	Source       SourceConfig
	Database     DatabaseConfig
	TableService TableServiceConfig
	Rate         RateLimitConfig
	Security     SecurityConfig
	Logging      LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// SourceConfig selects where the game list comes from.
type SourceConfig struct {
	// Kind is the primary source: json, postgres or postgrest (default: json)
	Kind string `env:"SOURCE_KIND" default:"json"`

	// Fallback is an optional second source tried when Kind fails
	Fallback string `env:"SOURCE_FALLBACK"`

	// Document is a file path or http(s) URL of the JSON document (default: games.json)
	Document string `env:"GAMES_DOCUMENT" default:"games.json"`

	// DocumentKey is the wrapper key for object documents (default: games)
	DocumentKey string `env:"GAMES_DOCUMENT_KEY" default:"games"`

	// Table is the table holding the games, for postgres and postgrest (default: games)
	Table string `env:"GAMES_TABLE" default:"games"`

	// LoadTimeout bounds a single fetch (default: 15s)
	LoadTimeout time.Duration `env:"SOURCE_LOAD_TIMEOUT" default:"15s"`

	// ReloadInterval re-fetches the source periodically; 0 disables (default: 0s)
	ReloadInterval time.Duration `env:"SOURCE_RELOAD_INTERVAL" default:"0s"`
}

// DatabaseConfig holds database connection settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// TableServiceConfig holds settings for a hosted table REST service.
type TableServiceConfig struct {
	// URL is the service base URL, e.g. https://project.supabase.co
	URL string `env:"TABLE_SERVICE_URL" envAlt:"SUPABASE_URL"`

	// APIKey is the public read-only key sent with every request
	APIKey string `env:"TABLE_SERVICE_KEY" envAlt:"SUPABASE_ANON_KEY"`

	// App is sent as the x-app header (default: boardgames-app)
	App string `env:"TABLE_SERVICE_APP" default:"boardgames-app"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ReloadLimit is requests per minute for the reload endpoint (default: 6)
	ReloadLimit int `env:"RATE_LIMIT_RELOAD" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesSource reports whether kind is the primary or fallback source.
func (c *SourceConfig) UsesSource(kind string) bool {
	return c.Kind == kind || c.Fallback == kind
}
