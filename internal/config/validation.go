package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidationError collects multiple validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: %s", strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate returns a *ValidationError if cfg is unusable, nil otherwise.
func (c *Config) Validate() error {
	ve := &ValidationError{}

	if c.DBPath == "" {
		ve.Add("dbPath must not be empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		ve.Add(err.Error())
	}

	if u, err := url.Parse(c.BGG.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		ve.Add(fmt.Sprintf("bgg.baseURL %q is not an absolute URL", c.BGG.BaseURL))
	}
	if c.BGG.RequestsPerMinute < 1 {
		ve.Add("bgg.requestsPerMinute must be >= 1")
	}
	if c.BGG.MaxRetries < 0 {
		ve.Add("bgg.maxRetries must be >= 0")
	}
	if c.BGG.RetryMaxDelay < c.BGG.RetryMinDelay {
		ve.Add("bgg.retryMaxDelay must be >= bgg.retryMinDelay")
	}
	if c.BGG.GameConcurrency < 1 {
		ve.Add("bgg.gameConcurrency must be >= 1")
	}
	if c.BGG.Timeout <= 0 {
		ve.Add("bgg.timeout must be positive")
	}

	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			ve.Add(fmt.Sprintf("schedule.cron %q: %v", c.Schedule.Cron, err))
		}
	}
	if c.Schedule.Since != "" {
		if _, err := time.Parse(time.DateOnly, c.Schedule.Since); err != nil {
			ve.Add(fmt.Sprintf("schedule.since %q is not YYYY-MM-DD", c.Schedule.Since))
		}
	}
	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			ve.Add(fmt.Sprintf("schedule.timezone %q: %v", c.Schedule.Timezone, err))
		}
	}

	for from, to := range c.Aliases {
		if from == "" || to == "" {
			ve.Add("aliases must map non-empty names")
			break
		}
		if _, chained := c.Aliases[to]; chained {
			ve.Add(fmt.Sprintf("alias %q -> %q points at another alias", from, to))
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}
