package config

import (
	"testing"
	"time"

	"github.com/osustats/osustats/internal/model"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OSU_CLIENT_ID", "12345")
	t.Setenv("OSU_CLIENT_SECRET", "s3cret")
}

func TestLoad_WithRequiredVars(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.ClientID != "12345" {
		t.Errorf("expected ClientID to be set, got %s", cfg.ClientID)
	}

	if cfg.ClientSecret != "s3cret" {
		t.Errorf("expected ClientSecret to be set, got %s", cfg.ClientSecret)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("OSU_CLIENT_ID", "")
	t.Setenv("OSU_CLIENT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars, got nil")
	}
}

func TestConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.UserID != 14337744 {
		t.Errorf("expected default UserID 14337744, got %d", cfg.UserID)
	}
	if cfg.Mode != "fruits" {
		t.Errorf("expected default Mode 'fruits', got %s", cfg.Mode)
	}
	if cfg.RankingPage != 20 || cfg.RankingLimit != 50 {
		t.Errorf("expected page 20 limit 50, got page %d limit %d", cfg.RankingPage, cfg.RankingLimit)
	}
	if cfg.TokenURL != "https://osu.ppy.sh/oauth/token" {
		t.Errorf("unexpected default TokenURL %s", cfg.TokenURL)
	}
	if cfg.FontSize != 20 {
		t.Errorf("expected default FontSize 20, got %v", cfg.FontSize)
	}
	if cfg.Headline != "3 DIGIT WHEN??" {
		t.Errorf("unexpected default Headline %q", cfg.Headline)
	}
	if cfg.WriteTimeout != 60*time.Second {
		t.Errorf("expected default WriteTimeout 60s, got %v", cfg.WriteTimeout)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("expected default HTTPTimeout 15s, got %v", cfg.HTTPTimeout)
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected empty RedisURL, got %s", cfg.RedisURL)
	}
	if !cfg.BreakerEnabled || cfg.BreakerMaxFailures != 5 {
		t.Errorf("expected breaker enabled with 5 failures, got %v/%d", cfg.BreakerEnabled, cfg.BreakerMaxFailures)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown mode", "OSU_MODE", "ctb"},
		{"limit above page size", "OSU_RANKING_LIMIT", "51"},
		{"zero page", "OSU_RANKING_PAGE", "0"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"negative rate limit", "RATE_LIMIT_GENERATE_PER_MINUTE", "-1"},
		{"token url not a url", "OSU_TOKEN_URL", "not a url"},
		{"write timeout below upstream budget", "WRITE_TIMEOUT", "45s"},
		{"http timeout too long for write timeout", "OSU_HTTP_TIMEOUT", "30s"},
		{"zero http timeout", "OSU_HTTP_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}
}

func TestLoad_TimeoutsConsistent(t *testing.T) {
	setRequired(t)
	t.Setenv("OSU_HTTP_TIMEOUT", "30s")
	t.Setenv("WRITE_TIMEOUT", "95s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.WriteTimeout <= 3*cfg.HTTPTimeout {
		t.Errorf("write timeout %v does not cover upstream calls", cfg.WriteTimeout)
	}
}

func TestLoad_ModeConstants(t *testing.T) {
	for _, mode := range model.Modes {
		t.Run(mode, func(t *testing.T) {
			setRequired(t)
			t.Setenv("OSU_MODE", mode)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("mode %q rejected: %v", mode, err)
			}
			if cfg.Mode != mode {
				t.Errorf("Mode = %q, want %q", cfg.Mode, mode)
			}
		})
	}
}
