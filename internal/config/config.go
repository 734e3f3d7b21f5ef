// Package config loads proxy configuration from an optional YAML file with
// environment variable overrides. The vendor credential is env-only and
// never read from the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keno-tools/catalog-proxy/pkg/catalog"
	"github.com/keno-tools/catalog-proxy/pkg/keno"
)

// Duration wraps time.Duration for YAML decoding of strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MatchConfig selects the category filter: exactly one of IDs or Name.
type MatchConfig struct {
	// IDs names category IDs verbatim.
	IDs []int64 `yaml:"ids"`

	// Name selects categories whose name contains this substring,
	// case-insensitively.
	Name string `yaml:"name"`
}

// Spec converts the configured filter to a catalog match spec.
func (m MatchConfig) Spec() (catalog.MatchSpec, error) {
	switch {
	case len(m.IDs) > 0 && m.Name != "":
		return nil, fmt.Errorf("match: ids and name are mutually exclusive")
	case len(m.IDs) > 0:
		return catalog.FixedIDs(m.IDs), nil
	case m.Name != "":
		return catalog.NameSubstring(m.Name), nil
	default:
		return nil, fmt.Errorf("match: either ids or name is required")
	}
}

// Config is the full proxy configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Endpoint is the vendor API URL.
	Endpoint string `yaml:"endpoint"`

	// APIKey is the vendor credential. Env-only (KENO_API_KEY).
	APIKey string `yaml:"-"`

	// Locale is the target locale for description normalization.
	Locale string `yaml:"locale"`

	// CategoryTTL is the reuse window for the fetched category tree.
	CategoryTTL Duration `yaml:"category_ttl"`

	// ProductTTL is the reuse window for the filtered product payload.
	ProductTTL Duration `yaml:"product_ttl"`

	// RequestTimeout bounds each vendor call.
	RequestTimeout Duration `yaml:"request_timeout"`

	// MaxAttempts is the total number of attempts per vendor call.
	MaxAttempts int `yaml:"max_attempts"`

	// Match selects the category filter.
	Match MatchConfig `yaml:"match"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogPretty enables human-readable console logs.
	LogPretty bool `yaml:"log_pretty"`
}

// DefaultConfig returns a Config with sensible defaults: the production
// vendor endpoint, the Lithuanian locale, an hour-scale tree TTL and a
// minute-scale product TTL, and the historical subcategory 78 filter.
func DefaultConfig() *Config {
	return &Config{
		Listen:         ":8080",
		Endpoint:       keno.DefaultEndpoint,
		Locale:         "lt",
		CategoryTTL:    Duration(time.Hour),
		ProductTTL:     Duration(10 * time.Minute),
		RequestTimeout: Duration(30 * time.Second),
		MaxAttempts:    1,
		Match:          MatchConfig{IDs: []int64{78}},
		LogLevel:       "info",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) error {
	cfg.APIKey = os.Getenv("KENO_API_KEY")

	if v := os.Getenv("KENO_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("KENO_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("KENO_CATEGORY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KENO_CATEGORY_TTL: %w", err)
		}
		cfg.CategoryTTL = Duration(d)
	}
	if v := os.Getenv("KENO_PRODUCT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KENO_PRODUCT_TTL: %w", err)
		}
		cfg.ProductTTL = Duration(d)
	}
	if v := os.Getenv("KENO_MATCH_IDS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return fmt.Errorf("KENO_MATCH_IDS: %w", err)
		}
		cfg.Match = MatchConfig{IDs: ids}
	}
	if v := os.Getenv("KENO_MATCH_NAME"); v != "" {
		cfg.Match = MatchConfig{Name: v}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return nil
}

// Validate checks invariants the rest of the process relies on. A missing
// API key is deliberately not fatal here: the request handler reports it
// per-request as a configuration error, matching the serverless original.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Locale == "" {
		return fmt.Errorf("locale is required")
	}
	if c.CategoryTTL <= 0 {
		return fmt.Errorf("category_ttl must be positive")
	}
	if c.ProductTTL <= 0 {
		return fmt.Errorf("product_ttl must be positive")
	}
	if _, err := c.Match.Spec(); err != nil {
		return err
	}
	return nil
}

// parseIDList parses a comma-separated list of integer IDs.
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, n)
	}
	return ids, nil
}
