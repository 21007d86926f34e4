// Package config loads the application configuration from a YAML file with
// environment-variable overrides for deploy-sensitive values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/logging"
)

// Config is the root application configuration.
type Config struct {
	Symbol       string             `yaml:"symbol" default:"BTCUSDT" validate:"required"`
	Feed         FeedConfig         `yaml:"feed"`
	Engine       engine.Config      `yaml:"engine"`
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Notification NotificationConfig `yaml:"notification"`
	Logging      logging.Config     `yaml:"logging"`
}

// FeedConfig configures the market data websocket stream.
type FeedConfig struct {
	WebSocketURL   string        `yaml:"websocket_url" default:"wss://stream.binance.com:9443/ws" validate:"required,url"`
	RESTURL        string        `yaml:"rest_url" default:"https://api.binance.com" validate:"required,url"`
	Backfill       bool          `yaml:"backfill" default:"true"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
	PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	MaxBars        int           `yaml:"max_bars" default:"500" validate:"gte=60"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	RateLimit       int           `yaml:"rate_limit" default:"120"`
	RateWindow      time.Duration `yaml:"rate_window" default:"1m"`
}

// DatabaseConfig configures the PostgreSQL alert store. Disabled means the
// process runs without persistence.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user" default:"alerts"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"alerts"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// RedisConfig configures the hot status/alert cache.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" default:"false"`
	Addr     string        `yaml:"addr" default:"localhost:6379"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" default:"0"`
	TTL      time.Duration `yaml:"ttl" default:"10m"`
}

// NotificationConfig configures push delivery of high-confidence alerts.
type NotificationConfig struct {
	Enabled  bool           `yaml:"enabled" default:"false"`
	Telegram TelegramConfig `yaml:"telegram"`
	Discord  DiscordConfig  `yaml:"discord"`
}

// TelegramConfig holds Telegram bot credentials.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled" default:"false"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// DiscordConfig holds a Discord webhook target.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled" default:"false"`
	WebhookURL string `yaml:"webhook_url"`
}

// Load reads, defaults, env-overrides and validates the configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// applyEnv overrides deploy-sensitive values from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ALERT_SYMBOL"); v != "" {
		cfg.Symbol = v
	}
	if v := os.Getenv("ALERT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ALERT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("ALERT_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("ALERT_TELEGRAM_TOKEN"); v != "" {
		cfg.Notification.Telegram.BotToken = v
	}
	if v := os.Getenv("ALERT_DISCORD_WEBHOOK"); v != "" {
		cfg.Notification.Discord.WebhookURL = v
	}
	if v := os.Getenv("ALERT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
