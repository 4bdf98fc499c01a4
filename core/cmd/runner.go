package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/AigentLabsFramework/aigent-framework/core/buildinfo"
	coreconfig "github.com/AigentLabsFramework/aigent-framework/core/config"
	"github.com/AigentLabsFramework/aigent-framework/core/engine"
	"github.com/AigentLabsFramework/aigent-framework/core/logger"
	"github.com/AigentLabsFramework/aigent-framework/core/market"
	"github.com/AigentLabsFramework/aigent-framework/core/session"
	coretelegram "github.com/AigentLabsFramework/aigent-framework/core/telegram"
)

// Options describe how to locate configuration for Run.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string
}

// Run loads configuration, wires the marketplace engine, and starts the bot
// runtime until an interrupt or SIGTERM arrives.
func Run(opts Options) error {
	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("cmd: logger init failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	eng, err := buildEngine(cfg)
	if err != nil {
		return fmt.Errorf("cmd: engine build failed: %w", err)
	}

	startedAt := time.Now()
	logger.L.With("component", "app").Info("app ready",
		slog.String("event", "ready"),
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.String("variant", cfg.Market.Variant),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	adapter := coretelegram.NewAdapter(eng)
	err = coretelegram.RunTelegram(ctx, coretelegram.RunOptions{
		Config:      cfg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      adapter.Routes(),
	})

	logger.L.With("component", "app").Info("shutting down...",
		slog.String("event", "shutdown"),
	)
	return err
}

// buildEngine seeds the in-memory stores from configuration and assembles the
// engine around them.
func buildEngine(cfg *coreconfig.Config) (*engine.Engine, error) {
	variant, err := engine.ParseVariant(cfg.Market.Variant)
	if err != nil {
		return nil, err
	}

	fee, err := decimal.NewFromString(cfg.Market.FeePercent)
	if err != nil {
		return nil, fmt.Errorf("invalid fee percent %q: %w", cfg.Market.FeePercent, err)
	}

	catalog := market.NewCatalog(cfg.Market.Categories...)
	store := market.NewConfigStore(market.ConfigOptions{
		AdminID:    cfg.Telegram.AdminID,
		FeePercent: fee,
		Wallet:     cfg.Market.PayoutWallet,
		Catalog:    catalog,
	})
	escrow := market.NewEscrow(catalog, store, cfg.Market.EscrowProgramID)

	ttl := time.Duration(cfg.Market.SessionTTLMinutes) * time.Minute
	return engine.New(engine.Options{
		Variant:  variant,
		Catalog:  catalog,
		Config:   store,
		Escrow:   escrow,
		Stats:    market.NewStatsReporter(escrow),
		Sessions: session.NewManager(ttl),
	}), nil
}
