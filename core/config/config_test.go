package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", AdminID: 42},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Market.Variant != VariantMarketplace {
		t.Errorf("variant = %q, want marketplace", cfg.Market.Variant)
	}
	if cfg.Market.FeePercent != "0.75" {
		t.Errorf("fee_percent = %q, want 0.75", cfg.Market.FeePercent)
	}
	if len(cfg.Market.Categories) != 2 {
		t.Errorf("categories = %v, want marketplace defaults", cfg.Market.Categories)
	}
}

func TestNormalizeRentalDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Market.Variant = "Rental"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Market.Variant != VariantRental {
		t.Errorf("variant = %q, want rental", cfg.Market.Variant)
	}
	if len(cfg.Market.Categories) != 3 {
		t.Errorf("categories = %v, want rental defaults", cfg.Market.Categories)
	}
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "token"},
		{"bad run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "run_mode"},
		{"bad variant", func(c *Config) { c.Market.Variant = "auction" }, "variant"},
		{"bad fee", func(c *Config) { c.Market.FeePercent = "lots" }, "fee_percent"},
		{"negative fee", func(c *Config) { c.Market.FeePercent = "-1" }, "fee_percent"},
		{"empty category", func(c *Config) { c.Market.Categories = []string{"Cars", "  "} }, "categories"},
		{"negative ttl", func(c *Config) { c.Market.SessionTTLMinutes = -5 }, "session_ttl"},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = "webhook" }, "webhook.url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}
