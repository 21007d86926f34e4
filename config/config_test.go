package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q, want default BTCUSDT", cfg.Symbol)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Feed.ReconnectDelay != 5*time.Second {
		t.Errorf("ReconnectDelay = %v, want 5s", cfg.Feed.ReconnectDelay)
	}
	if cfg.Database.Enabled || cfg.Redis.Enabled {
		t.Error("persistence layers must default to disabled")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
symbol: ETHUSDT
server:
  port: 9090
engine:
  rvol_threshold: 2.0
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Symbol != "ETHUSDT" {
		t.Errorf("Symbol = %q, want ETHUSDT", cfg.Symbol)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Engine.RVOLThreshold != 2.0 {
		t.Errorf("RVOLThreshold = %v, want 2.0", cfg.Engine.RVOLThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Feed.MaxBars != 500 {
		t.Errorf("MaxBars = %d, want default 500", cfg.Feed.MaxBars)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "symbol: ETHUSDT\n")

	t.Setenv("ALERT_SYMBOL", "SOLUSDT")
	t.Setenv("ALERT_SERVER_PORT", "7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Symbol != "SOLUSDT" {
		t.Errorf("Symbol = %q, want env override SOLUSDT", cfg.Symbol)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want env override 7000", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "server:\n  port: -1\n")

	if _, err := Load(path); err == nil {
		t.Error("negative port should fail validation")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("missing file should error")
	}
}
