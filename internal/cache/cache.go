// Package cache keeps the latest alert, engine status and runtime settings
// overrides in Redis so API reads and restarts never touch the hot path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intraday-alert-bot/internal/engine"
)

// ErrNotFound is returned when a key has no cached value.
var ErrNotFound = errors.New("cache: not found")

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps the Redis client with domain-shaped accessors.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func latestAlertKey(symbol string) string { return "alerts:latest:" + symbol }
func statusKey(symbol string) string      { return "alerts:status:" + symbol }
func settingsKey(symbol string) string    { return "alerts:settings:" + symbol }

// SetLatestAlert stores the most recent alert for a symbol.
func (c *Cache) SetLatestAlert(ctx context.Context, a *engine.Alert) error {
	return c.setJSON(ctx, latestAlertKey(a.Symbol), a, c.ttl)
}

// GetLatestAlert returns the most recent alert for a symbol.
func (c *Cache) GetLatestAlert(ctx context.Context, symbol string) (*engine.Alert, error) {
	var a engine.Alert
	if err := c.getJSON(ctx, latestAlertKey(symbol), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetStatus stores an engine status snapshot.
func (c *Cache) SetStatus(ctx context.Context, symbol string, status interface{}) error {
	return c.setJSON(ctx, statusKey(symbol), status, c.ttl)
}

// SetSettings persists runtime engine settings overrides. Settings have no
// TTL: they survive until explicitly replaced.
func (c *Cache) SetSettings(ctx context.Context, symbol string, cfg engine.Config) error {
	return c.setJSON(ctx, settingsKey(symbol), cfg, 0)
}

// GetSettings returns persisted engine settings overrides.
func (c *Cache) GetSettings(ctx context.Context, symbol string) (engine.Config, error) {
	var cfg engine.Config
	err := c.getJSON(ctx, settingsKey(symbol), &cfg)
	return cfg, err
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) getJSON(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
