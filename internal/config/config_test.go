package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/keno-tools/catalog-proxy/pkg/catalog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Locale != "lt" {
		t.Errorf("default locale = %q, want lt", cfg.Locale)
	}
	if cfg.CategoryTTL.Std() != time.Hour {
		t.Errorf("default category TTL = %v, want 1h", cfg.CategoryTTL.Std())
	}
	if cfg.ProductTTL.Std() != 10*time.Minute {
		t.Errorf("default product TTL = %v, want 10m", cfg.ProductTTL.Std())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	spec, err := cfg.Match.Spec()
	if err != nil {
		t.Fatalf("default match spec: %v", err)
	}
	if !reflect.DeepEqual(spec, catalog.FixedIDs{78}) {
		t.Errorf("default spec = %v, want ids[78]", spec)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen: ":9090"
locale: pl
category_ttl: 2h
product_ttl: 5m
match:
  name: Storage
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Locale != "pl" {
		t.Errorf("locale = %q", cfg.Locale)
	}
	if cfg.CategoryTTL.Std() != 2*time.Hour {
		t.Errorf("category_ttl = %v", cfg.CategoryTTL.Std())
	}
	if cfg.ProductTTL.Std() != 5*time.Minute {
		t.Errorf("product_ttl = %v", cfg.ProductTTL.Std())
	}

	spec, err := cfg.Match.Spec()
	if err != nil {
		t.Fatalf("match spec: %v", err)
	}
	if spec != catalog.NameSubstring("Storage") {
		t.Errorf("spec = %v", spec)
	}

	// File-absent fields keep their defaults.
	if cfg.Endpoint == "" {
		t.Error("endpoint default should survive partial file")
	}
}

func TestLoadFromFile_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("product_ttl: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("non-duration string should fail to parse")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KENO_API_KEY", "secret")
	t.Setenv("KENO_PRODUCT_TTL", "3m")
	t.Setenv("KENO_MATCH_IDS", "101, 102")
	t.Setenv("PORT", "7070")

	cfg := DefaultConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.ProductTTL.Std() != 3*time.Minute {
		t.Errorf("product_ttl = %v", cfg.ProductTTL.Std())
	}
	if cfg.Listen != ":7070" {
		t.Errorf("listen = %q", cfg.Listen)
	}

	spec, err := cfg.Match.Spec()
	if err != nil {
		t.Fatalf("match spec: %v", err)
	}
	if !reflect.DeepEqual(spec, catalog.FixedIDs{101, 102}) {
		t.Errorf("spec = %v, want ids[101 102]", spec)
	}
}

func TestLoadFromEnv_BadTTL(t *testing.T) {
	t.Setenv("KENO_CATEGORY_TTL", "whenever")

	cfg := DefaultConfig()
	if err := LoadFromEnv(cfg); err == nil {
		t.Error("invalid TTL env should fail")
	}
}

func TestMatchConfig_Spec(t *testing.T) {
	tests := []struct {
		name    string
		match   MatchConfig
		wantErr bool
	}{
		{"ids_only", MatchConfig{IDs: []int64{78}}, false},
		{"name_only", MatchConfig{Name: "Storage"}, false},
		{"both", MatchConfig{IDs: []int64{78}, Name: "Storage"}, true},
		{"neither", MatchConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.match.Spec()
			if (err != nil) != tt.wantErr {
				t.Errorf("Spec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProductTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero product TTL should not validate")
	}

	cfg = DefaultConfig()
	cfg.Endpoint = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty endpoint should not validate")
	}

	// Missing API key is a request-time condition, not a startup failure.
	cfg = DefaultConfig()
	cfg.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("missing api key should still validate: %v", err)
	}
}
