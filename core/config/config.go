package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// MarketConfig holds the marketplace engine settings seeded at startup.
type MarketConfig struct {
	// Variant selects the product flavor: "rental" or "marketplace".
	Variant    string   `yaml:"variant" envconfig:"MARKET_VARIANT"`
	Categories []string `yaml:"categories"`
	// FeePercent is the admin surcharge on trade price, e.g. "0.75".
	FeePercent   string `yaml:"fee_percent" envconfig:"MARKET_FEE_PERCENT"`
	PayoutWallet string `yaml:"payout_wallet" envconfig:"MARKET_PAYOUT_WALLET"`
	// EscrowProgramID names the on-chain settlement program referenced in
	// rendered instructions. The bot never calls it.
	EscrowProgramID string `yaml:"escrow_program_id" envconfig:"ESCROW_PROGRAM_ID"`
	// SessionTTLMinutes discards wizards idle for longer; 0 disables the timeout.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"SESSION_TTL_MINUTES"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// VariantRental is the rental flavor: multi-step listing wizard with
	// physical/digital types, locations and deposits.
	VariantRental = "rental"
	// VariantMarketplace is the sale flavor: single-message sell wizard and
	// keyword-only search.
	VariantMarketplace = "marketplace"
)

// Config aggregates the bot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging"`
	Market   MarketConfig   `yaml:"market"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	variant := strings.ToLower(strings.TrimSpace(cfg.Market.Variant))
	if variant == "" {
		variant = VariantMarketplace
	}
	switch variant {
	case VariantRental, VariantMarketplace:
	default:
		return fmt.Errorf("invalid market.variant %q; allowed: rental, marketplace", cfg.Market.Variant)
	}
	cfg.Market.Variant = variant

	if len(cfg.Market.Categories) == 0 {
		cfg.Market.Categories = defaultCategories(variant)
	}
	for i, cat := range cfg.Market.Categories {
		trimmed := strings.TrimSpace(cat)
		if trimmed == "" {
			return fmt.Errorf("market.categories[%d] is empty", i)
		}
		cfg.Market.Categories[i] = trimmed
	}

	fee := strings.TrimSpace(cfg.Market.FeePercent)
	if fee == "" {
		fee = "0.75"
	}
	parsed, err := decimal.NewFromString(fee)
	if err != nil {
		return fmt.Errorf("invalid market.fee_percent %q: %w", cfg.Market.FeePercent, err)
	}
	if parsed.IsNegative() {
		return fmt.Errorf("market.fee_percent must be >= 0, got %s", parsed)
	}
	cfg.Market.FeePercent = fee

	if cfg.Market.SessionTTLMinutes < 0 {
		return fmt.Errorf("market.session_ttl_minutes must be >= 0")
	}

	return nil
}

func defaultCategories(variant string) []string {
	if variant == VariantRental {
		return []string{"Cars", "Tools", "Digital Goods"}
	}
	return []string{"Electronics", "Clothing"}
}
