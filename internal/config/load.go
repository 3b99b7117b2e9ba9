package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Sources names the optional files Load reads. Empty names are skipped.
type Sources struct {
	YAMLFile string
	EnvFile  string
}

var DefaultSources = Sources{YAMLFile: "config.yaml", EnvFile: ".env"}

// Load builds the configuration for service. Later layers win:
// defaults, yaml file, .env file, process environment.
// Environment keys use the upper-cased service name as prefix and a
// double underscore as the section separator, e.g. CATALOG_STORE__DSN.
func Load(service string, src Sources) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(service), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if src.YAMLFile != "" {
		if err := k.Load(file.Provider(src.YAMLFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", src.YAMLFile, err)
		}
	}

	prefix := strings.ToUpper(service) + "_"
	transform := func(key string) string {
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}

	if src.EnvFile != "" {
		vals, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			m := make(map[string]any, len(vals))
			for key, v := range vals {
				if strings.HasPrefix(key, prefix) {
					m[transform(key)] = v
				}
			}
			if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
				return nil, fmt.Errorf("loading %s: %w", src.EnvFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", src.EnvFile, err)
		}
	}

	if err := k.Load(env.Provider(prefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Defaults returns the baseline settings for service.
func Defaults(service string) map[string]any {
	port := 8082
	if service == "storefront" {
		port = 8080
	}

	return map[string]any{
		"http.port":                   port,
		"http.read_header_timeout":    5 * time.Second,
		"http.shutdown_timeout":       10 * time.Second,
		"log.level":                   "info",
		"store.driver":                DriverMemory,
		"store.dialect":               DialectPostgres,
		"store.dsn":                   "",
		"store.migrate":               true,
		"store.seed":                  false,
		"validation.name_max":         10,
		"auth.jwt_secret":             "",
		"auth.token_ttl":              5 * time.Minute,
		"metrics.enabled":             true,
		"metrics.token":               "",
		"ratelimit.writes_per_minute": 0,
		"api.base_url":                "",
		"api.timeout":                 3 * time.Second,
	}
}
