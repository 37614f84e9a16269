package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Provider != "memory" {
		t.Errorf("Expected default cache provider memory, got %q", cfg.Cache.Provider)
	}
	if cfg.Preferences.Backend != "cookie" {
		t.Errorf("Expected default preference backend cookie, got %q", cfg.Preferences.Backend)
	}
	if cfg.Search.Debounce != "500ms" {
		t.Errorf("Expected default debounce 500ms, got %q", cfg.Search.Debounce)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("Expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("APP_CONSUMET_API_BASE_URL", "https://consumet.example.com/")
	t.Setenv("APP_SERVER_PORT", "9999")
	t.Setenv("APP_CACHE_PROVIDER", "gocache")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ConsumetAPIBaseURL != "https://consumet.example.com" {
		t.Errorf("Expected trailing slash to be trimmed, got %q", cfg.ConsumetAPIBaseURL)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999 from env, got %d", cfg.Server.Port)
	}
	if cfg.Cache.Provider != "gocache" {
		t.Errorf("Expected cache provider gocache from env, got %q", cfg.Cache.Provider)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback time.Duration
		expected time.Duration
	}{
		{name: "valid", raw: "250ms", fallback: time.Second, expected: 250 * time.Millisecond},
		{name: "empty", raw: "", fallback: time.Second, expected: time.Second},
		{name: "invalid", raw: "soon", fallback: 2 * time.Second, expected: 2 * time.Second},
		{name: "negative", raw: "-1s", fallback: time.Minute, expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration("test", tt.raw, tt.fallback); got != tt.expected {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}
