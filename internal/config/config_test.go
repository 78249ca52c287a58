package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.BGG.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.BGG.MaxRetries)
	}
	if cfg.BGG.RetryMinDelay != time.Second || cfg.BGG.RetryMaxDelay != 3*time.Second {
		t.Errorf("retry delays = %v..%v, want 1s..3s", cfg.BGG.RetryMinDelay, cfg.BGG.RetryMaxDelay)
	}
	if cfg.Aliases == nil {
		t.Error("Aliases = nil, want empty map")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
user: shu
logLevel: debug
aliases:
  Sande: Shu_bot
  Misheto: Misheto Maslarova
bgg:
  gameConcurrency: 8
  timeout: 10s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.User != "shu" {
		t.Errorf("User = %q, want %q", cfg.User, "shu")
	}
	if cfg.Aliases["Misheto"] != "Misheto Maslarova" {
		t.Errorf("alias Misheto = %q", cfg.Aliases["Misheto"])
	}
	if cfg.BGG.GameConcurrency != 8 || cfg.BGG.Timeout != 10*time.Second {
		t.Errorf("bgg = %+v", cfg.BGG)
	}
	// Untouched fields keep defaults.
	if cfg.BGG.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want default 5", cfg.BGG.MaxRetries)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BGG.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want 30", cfg.BGG.RequestsPerMinute)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BGGSTATS_DB", "/tmp/x.db")
	t.Setenv("BGG_REQUESTS_PER_MINUTE", "12")
	cfg := DefaultConfig()
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.BGG.RequestsPerMinute != 12 {
		t.Errorf("RequestsPerMinute = %d, want 12", cfg.BGG.RequestsPerMinute)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	cfg.BGG.GameConcurrency = 0
	cfg.Schedule.Cron = "every day"
	cfg.Aliases = map[string]string{"a": "b", "b": "c"}

	err := cfg.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 4 {
		t.Errorf("want 4 errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARN")
	if err != nil || lvl != slog.LevelWarn {
		t.Errorf("ParseLogLevel(WARN) = %v, %v", lvl, err)
	}
}

func TestLoadFromFile_ExpandsHomeInDBPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BGGSTATS_DB", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dbPath: ~/stats/bgg.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	want := filepath.Join(os.Getenv("HOME"), "stats", "bgg.db")
	if cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
}
