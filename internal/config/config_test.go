package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEFAULT_CURRENCY", "PRICE_STALE_AFTER", "PRICE_REQUEST_TIMEOUT", "PRICE_REFRESH_TIMEOUT", "YAHOO_BASE_URL", "PIPELINE_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultCurrency != "INR" {
		t.Errorf("DefaultCurrency = %q, want INR", cfg.DefaultCurrency)
	}
	if cfg.PriceStaleAfter != 5*time.Minute {
		t.Errorf("PriceStaleAfter = %s, want 5m", cfg.PriceStaleAfter)
	}
	if cfg.PriceRequestTimeout != 10*time.Second {
		t.Errorf("PriceRequestTimeout = %s, want 10s", cfg.PriceRequestTimeout)
	}
	if cfg.PriceRefreshTimeout != 2*time.Minute {
		t.Errorf("PriceRefreshTimeout = %s, want 2m", cfg.PriceRefreshTimeout)
	}
	if cfg.PipelineAPIKey != "" {
		t.Errorf("PipelineAPIKey = %q, want empty", cfg.PipelineAPIKey)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_CURRENCY", "usd")
	t.Setenv("PRICE_STALE_AFTER", "90s")
	t.Setenv("PRICE_REFRESH_SCHEDULE", "")
	t.Setenv("PRICE_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("PRICE_REFRESH_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %q, want USD", cfg.DefaultCurrency)
	}
	if cfg.PriceStaleAfter != 90*time.Second {
		t.Errorf("PriceStaleAfter = %s, want 90s", cfg.PriceStaleAfter)
	}
	if cfg.PriceRefreshSchedule != "" {
		t.Errorf("PriceRefreshSchedule = %q, want empty (disabled)", cfg.PriceRefreshSchedule)
	}
	if cfg.PriceRequestTimeout != 10*time.Second {
		t.Errorf("PriceRequestTimeout = %s, want fallback 10s", cfg.PriceRequestTimeout)
	}
	if cfg.PriceRefreshTimeout != 45*time.Second {
		t.Errorf("PriceRefreshTimeout = %s, want 45s", cfg.PriceRefreshTimeout)
	}
	if Get() != cfg {
		t.Error("Get should return the last loaded config")
	}
}
