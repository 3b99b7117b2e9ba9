// Package config loads service configuration from defaults, an optional
// config.yaml, an optional .env file and the process environment.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	HTTP       HTTPConfig       `koanf:"http"`
	Log        LogConfig        `koanf:"log"`
	Store      StoreConfig      `koanf:"store"`
	Validation ValidationConfig `koanf:"validation"`
	Auth       AuthConfig       `koanf:"auth"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	API        APIConfig        `koanf:"api"`
}

type HTTPConfig struct {
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StoreConfig struct {
	Driver  string `koanf:"driver"`
	Dialect string `koanf:"dialect"`
	DSN     string `koanf:"dsn"`
	Migrate bool   `koanf:"migrate"`
	Seed    bool   `koanf:"seed"`
}

type ValidationConfig struct {
	NameMax int `koanf:"name_max"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type RateLimitConfig struct {
	WritesPerMinute int `koanf:"writes_per_minute"`
}

// APIConfig points the storefront at a remote catalog API. An empty
// BaseURL keeps the storefront on its own store.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid http shutdown timeout: %v", c.HTTP.ShutdownTimeout)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if !isPostgresURL(c.Store.DSN) {
			return fmt.Errorf("store dsn must start with 'postgres://': %s", maskDSN(c.Store.DSN))
		}
	case DriverGorm:
		switch c.Store.Dialect {
		case DialectPostgres:
			if !isPostgresURL(c.Store.DSN) {
				return fmt.Errorf("store dsn must start with 'postgres://': %s", maskDSN(c.Store.DSN))
			}
		case DialectSQLite:
			if c.Store.DSN == "" {
				return fmt.Errorf("store dsn is required for sqlite")
			}
		default:
			return fmt.Errorf("unknown gorm dialect %q", c.Store.Dialect)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Validation.NameMax < 3 {
		return fmt.Errorf("validation name_max must be at least 3, got %d", c.Validation.NameMax)
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth jwt_secret must be at least 32 chars")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid auth token ttl: %v", c.Auth.TokenTTL)
	}
	if c.RateLimit.WritesPerMinute < 0 {
		return fmt.Errorf("ratelimit writes_per_minute must not be negative")
	}
	if c.API.BaseURL != "" && c.API.Timeout <= 0 {
		return fmt.Errorf("invalid api timeout: %v", c.API.Timeout)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- HTTP ---\n")
	fmt.Fprintf(&b, "  http.port: %d\n", c.HTTP.Port)
	fmt.Fprintf(&b, "  http.read_header_timeout: %v\n", c.HTTP.ReadHeaderTimeout)
	fmt.Fprintf(&b, "  http.shutdown_timeout: %v\n", c.HTTP.ShutdownTimeout)

	b.WriteString("\n--- Store ---\n")
	fmt.Fprintf(&b, "  store.driver: %s\n", c.Store.Driver)
	fmt.Fprintf(&b, "  store.dialect: %s\n", c.Store.Dialect)
	fmt.Fprintf(&b, "  store.dsn: %s\n", maskDSN(c.Store.DSN))
	fmt.Fprintf(&b, "  store.migrate: %t\n", c.Store.Migrate)
	fmt.Fprintf(&b, "  store.seed: %t\n", c.Store.Seed)

	b.WriteString("\n--- Behaviour ---\n")
	fmt.Fprintf(&b, "  validation.name_max: %d\n", c.Validation.NameMax)
	fmt.Fprintf(&b, "  auth.enabled: %t\n", c.Auth.JWTSecret != "")
	fmt.Fprintf(&b, "  metrics.enabled: %t\n", c.Metrics.Enabled)
	fmt.Fprintf(&b, "  ratelimit.writes_per_minute: %d\n", c.RateLimit.WritesPerMinute)
	fmt.Fprintf(&b, "  api.base_url: %s\n", c.API.BaseURL)
	fmt.Fprintf(&b, "  log.level: %s\n", c.Log.Level)

	return b.String()
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

// maskDSN hides credentials in a connection string.
func maskDSN(dsn string) string {
	if dsn == "" {
		return "<not configured>"
	}
	if _, host, ok := strings.Cut(dsn, "@"); ok {
		return "****@" + host
	}
	if isPostgresURL(dsn) {
		return "****"
	}
	return dsn
}
