package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.APIBaseURL == "" {
		t.Fatal("expected default api base url")
	}
	if cfg.PollInterval != 15*time.Second {
		t.Fatalf("expected default poll interval of 15s, got %s", cfg.PollInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://staging.example.com")
	t.Setenv("CHAT_POLL_INTERVAL", "30s")
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.APIBaseURL != "https://staging.example.com" {
		t.Fatalf("unexpected api base url: %s", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("bad duration should fall back, got %s", cfg.HTTPTimeout)
	}
}
