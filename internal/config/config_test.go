package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.UpstreamTimeout != 20*time.Second {
		t.Errorf("expected default upstream timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.DoctorCacheTTL != 10*time.Minute {
		t.Errorf("expected default doctor cache TTL, got %s", cfg.DoctorCacheTTL)
	}
	if cfg.GeminiModelID == "" {
		t.Error("expected default gemini model id")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Port)
	}
	if cfg.UpstreamBaseURL != "https://api.example.com" {
		t.Errorf("unexpected upstream base url: %s", cfg.UpstreamBaseURL)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.UpstreamTimeout)
	}
	if !cfg.RedisTLS {
		t.Error("expected redis tls enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}
