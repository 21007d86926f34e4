// Command intraday-alert-bot runs the multi-timeframe alert engine for one
// symbol: it backfills history, subscribes to the live 1-minute kline stream,
// evaluates every closed bar and serves alerts over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"intraday-alert-bot/config"
	"intraday-alert-bot/internal/api"
	"intraday-alert-bot/internal/cache"
	"intraday-alert-bot/internal/database"
	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/events"
	"intraday-alert-bot/internal/feed"
	"intraday-alert-bot/internal/logging"
	"intraday-alert-bot/internal/market"
	"intraday-alert-bot/internal/metrics"
	"intraday-alert-bot/internal/notification"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log.Info().Str("symbol", cfg.Symbol).Msg("starting alert engine")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional persistence.
	var repo *database.Repository
	if cfg.Database.Enabled {
		db, err := database.NewDB(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repo = database.NewRepository(db)
	}

	// Optional hot cache.
	var hotCache *cache.Cache
	if cfg.Redis.Enabled {
		hotCache, err = cache.New(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer hotCache.Close()
	}

	// Push channels.
	notifier := notification.NewManager()
	if cfg.Notification.Enabled {
		notifier.AddNotifier(notification.NewTelegramNotifier(
			cfg.Notification.Telegram.BotToken,
			cfg.Notification.Telegram.ChatID,
			cfg.Notification.Telegram.Enabled,
		))
		notifier.AddNotifier(notification.NewDiscordNotifier(
			cfg.Notification.Discord.WebhookURL,
			cfg.Notification.Discord.Enabled,
		))
	}

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)
	bus := events.NewBus()

	engineCfg := cfg.Engine
	if hotCache != nil {
		// Settings applied through the API survive restarts.
		if saved, err := hotCache.GetSettings(ctx, cfg.Symbol); err == nil {
			engineCfg = saved
			log.Info().Msg("restored engine settings from cache")
		}
	}
	eng := engine.NewEngine(engineCfg, log)

	agg := market.NewAggregator(cfg.Symbol, cfg.Feed.MaxBars)
	if cfg.Feed.Backfill {
		candles, err := feed.Backfill(ctx, cfg.Feed.RESTURL, cfg.Symbol, cfg.Feed.MaxBars)
		if err != nil {
			log.Warn().Err(err).Msg("backfill failed, starting with empty history")
		} else {
			for _, c := range candles {
				agg.AppendM1(c)
			}
			log.Info().Int("bars", len(candles)).Msg("history backfilled")
		}
	}

	runner := feed.NewRunner(cfg.Symbol, agg, eng, feed.RunnerDeps{
		Bus:        bus,
		Metrics:    met,
		Repository: repo,
		Cache:      hotCache,
		Notifier:   notifier,
	}, log)

	stream := feed.NewStream(feed.StreamConfig{
		BaseURL:        cfg.Feed.WebSocketURL,
		Symbol:         cfg.Symbol,
		ReconnectDelay: cfg.Feed.ReconnectDelay,
		PingInterval:   cfg.Feed.PingInterval,
	}, runner.OnBar, log)

	server := api.NewServer(api.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ProductionMode: cfg.Logging.Level != "debug",
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
	}, cfg.Symbol, runner, repo, hotCache, bus, registry, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	go stream.Run(ctx, runner.OnReconnect)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api shutdown failed")
	}

	// Give in-flight sink writes a moment before the process exits.
	time.Sleep(100 * time.Millisecond)
	log.Info().Msg("stopped")
	return nil
}
