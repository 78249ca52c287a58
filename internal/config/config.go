package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for bggstats.
type Config struct {
	DBPath      string `yaml:"dbPath"`
	User        string `yaml:"user"`     // default BGG user when a command omits it
	LogLevel    string `yaml:"logLevel"` // "debug", "info", "warn", "error"
	MetricsFile string `yaml:"metricsFile"`

	// Aliases maps historical player names to their canonical spelling.
	Aliases map[string]string `yaml:"aliases"`

	BGG      BGGConfig      `yaml:"bgg"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

type BGGConfig struct {
	BaseURL           string        `yaml:"baseURL"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
	MaxRetries        int           `yaml:"maxRetries"`
	RetryMinDelay     time.Duration `yaml:"retryMinDelay"`
	RetryMaxDelay     time.Duration `yaml:"retryMaxDelay"`
	GameConcurrency   int           `yaml:"gameConcurrency"`
	Timeout           time.Duration `yaml:"timeout"`
}

type ScheduleConfig struct {
	Cron     string `yaml:"cron"` // standard 5-field expression
	Since    string `yaml:"since"`
	Timezone string `yaml:"timezone"`
}

// DefaultConfig returns a Config with sensible defaults and env overrides applied.
func DefaultConfig() *Config {
	cfg := &Config{
		DBPath:   filepath.Join(userHome(), ".bggstats", "bggstats.db"),
		LogLevel: "info",
		Aliases:  map[string]string{},
		BGG: BGGConfig{
			BaseURL:           "https://api.geekdo.com/xmlapi2",
			RequestsPerMinute: 30,
			MaxRetries:        5,
			RetryMinDelay:     time.Second,
			RetryMaxDelay:     3 * time.Second,
			GameConcurrency:   4,
			Timeout:           30 * time.Second,
		},
		Schedule: ScheduleConfig{
			Cron:     "0 6 * * *",
			Timezone: "UTC",
		},
	}
	cfg.applyEnvOverrides()
	return cfg
}

// LoadFromFile loads config from a YAML file, overlaying on defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.DBPath = expandHome(cfg.DBPath)
	return cfg, nil
}

// Load reads path if it exists and falls back to defaults otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// applyEnvOverrides lets environment variables win over file and defaults.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BGGSTATS_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BGGSTATS_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("BGGSTATS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BGGSTATS_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("BGG_BASE_URL"); v != "" {
		c.BGG.BaseURL = v
	}
	if v := os.Getenv("BGG_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BGG.RequestsPerMinute = n
		}
	}
}

// DefaultPath returns ~/.bggstats/config.yaml.
func DefaultPath() string {
	return filepath.Join(userHome(), ".bggstats", "config.yaml")
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(userHome(), rest)
	}
	return path
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
