package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "negative parallelism",
			mutate: func(cfg *Config) {
				cfg.Parallelism = -1
			},
			wantErr: "parallelism",
		},
		{
			name: "zero max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = 0
			},
			wantErr: "max pages",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "template without page",
			mutate: func(cfg *Config) {
				cfg.SearchURLTemplate = "https://www.amazon.com/s?k={query}"
			},
			wantErr: "{page}",
		},
		{
			name: "blank query",
			mutate: func(cfg *Config) {
				cfg.Query = "  "
			},
			wantErr: "query",
		},
		{
			name: "bad proxy",
			mutate: func(cfg *Config) {
				cfg.ProxyURL = "not a proxy"
			},
			wantErr: "proxy",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "zero batch size",
			mutate: func(cfg *Config) {
				cfg.BatchSize = 0
			},
			wantErr: "batch size",
		},
		{
			name: "zero dedupe size",
			mutate: func(cfg *Config) {
				cfg.DedupeMaxSize = 0
			},
			wantErr: "dedupe",
		},
		{
			name: "empty user agent",
			mutate: func(cfg *Config) {
				cfg.UserAgent = ""
			},
			wantErr: "user agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestRandomUserAgentAllowsEmptyUserAgent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UserAgent = ""
	cfg.RandomUserAgent = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestSearchURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query = "accent chair"
	got := cfg.SearchURL(2)
	want := "https://www.amazon.com/s?k=accent+chair&page=2"
	if got != want {
		t.Fatalf("SearchURL = %q, want %q", got, want)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_SCRAPER_INT", "7")
	t.Setenv("TEST_SCRAPER_BAD_INT", "seven")
	t.Setenv("TEST_SCRAPER_BOOL", "true")
	t.Setenv("TEST_SCRAPER_DURATION", "250ms")
	t.Setenv("TEST_SCRAPER_BLANK", "   ")

	if v, ok, err := EnvInt("TEST_SCRAPER_INT"); err != nil || !ok || v != 7 {
		t.Fatalf("EnvInt = %d, %v, %v", v, ok, err)
	}
	if _, _, err := EnvInt("TEST_SCRAPER_BAD_INT"); err == nil {
		t.Fatalf("expected parse error for bad int")
	}
	if v, ok, err := EnvBool("TEST_SCRAPER_BOOL"); err != nil || !ok || !v {
		t.Fatalf("EnvBool = %v, %v, %v", v, ok, err)
	}
	if v, ok, err := EnvDuration("TEST_SCRAPER_DURATION"); err != nil || !ok || v != 250*time.Millisecond {
		t.Fatalf("EnvDuration = %v, %v, %v", v, ok, err)
	}
	if _, ok := EnvString("TEST_SCRAPER_BLANK"); ok {
		t.Fatalf("blank value should be reported as unset")
	}
	if _, ok, err := EnvInt("TEST_SCRAPER_UNSET"); ok || err != nil {
		t.Fatalf("unset key should report ok=false without error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TEST_DOTENV_QUERY=standing desk\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TEST_DOTENV_QUERY", "")
	os.Unsetenv("TEST_DOTENV_QUERY")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got, _ := EnvString("TEST_DOTENV_QUERY"); got != "standing desk" {
		t.Fatalf("TEST_DOTENV_QUERY = %q", got)
	}
}

func TestParsePairs(t *testing.T) {
	got := ParsePairs("session-id=abc; i18n-prefs=USD;broken;=skip")
	if len(got) != 2 || got["session-id"] != "abc" || got["i18n-prefs"] != "USD" {
		t.Fatalf("ParsePairs = %v", got)
	}
}
