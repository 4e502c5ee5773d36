// Package config provides centralized configuration management for the application.
// It loads configuration from an optional TOML file and environment variables
// with sensible defaults, and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Parse    ParseConfig     `toml:"parse"`
	Rate     RateLimitConfig `toml:"rate_limit"`
	Security SecurityConfig  `toml:"security"`
	Logging  LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" toml:"host" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	// PORT is accepted as a fallback for platform-assigned ports.
	Port int `env:"SERVER_PORT" envAlt:"PORT" toml:"port" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" toml:"read_timeout" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" toml:"write_timeout" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" toml:"idle_timeout" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" toml:"shutdown_timeout" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" toml:"request_timeout" default:"30s"`
}

// ParseConfig holds table conversion settings.
type ParseConfig struct {
	// MaxBodySize is the largest table accepted over HTTP, in bytes (default: 10MB)
	MaxBodySize int64 `env:"PARSE_MAX_BODY_SIZE" toml:"max_body_size" default:"10485760"`

	// AllowUnknownColumns ignores header columns the schema does not declare (default: false)
	AllowUnknownColumns bool `env:"PARSE_ALLOW_UNKNOWN_COLUMNS" toml:"allow_unknown_columns" default:"false"`

	// Format is the default CLI output format: json, csv or table (default: json)
	Format string `env:"PARSE_FORMAT" toml:"format" default:"json"`

	// MaxConcurrent caps simultaneous HTTP conversions (default: 8)
	MaxConcurrent int `env:"PARSE_MAX_CONCURRENT" toml:"max_concurrent" default:"8"`

	// MaxWait is how long a request waits for a conversion slot (default: 10s)
	MaxWait time.Duration `env:"PARSE_MAX_WAIT" toml:"max_wait" default:"10s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" toml:"enabled" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" toml:"requests_per_minute" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES" toml:"trusted_proxies"`

	// RequireAPIKey gates /api routes behind the X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" toml:"require_api_key" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS" toml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" toml:"level" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" toml:"format" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
