package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvCreateDate = "METSGEN_CREATE_DATE"
	EnvLogLevel   = "METSGEN_LOG_LEVEL"

	// createDateLayout matches the metsHdr CREATEDATE format
	createDateLayout = "2006-01-02T15:04:05"
)

// Config holds environment-backed defaults for the CLI
type Config struct {
	CreateDate string
	LogLevel   string
}

// LoadDotEnv loads a .env file from the working directory if present
func LoadDotEnv() {
	// Missing .env is the common case
	_ = godotenv.Load()
}

// Load reads configuration from the environment
func Load() Config {
	cfg := Config{
		CreateDate: strings.TrimSpace(os.Getenv(EnvCreateDate)),
		LogLevel:   strings.TrimSpace(os.Getenv(EnvLogLevel)),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg
}

// ParseCreateDate parses a creation date. An empty value or "now" yields the
// current time; otherwise the metsHdr layout and RFC 3339 are accepted.
func ParseCreateDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "now") {
		return now, nil
	}

	if t, err := time.ParseInLocation(createDateLayout, value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, time.Local); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid create date %q (use %s, RFC 3339, or YYYY-MM-DD)", value, createDateLayout)
}

// ParseLogLevel parses a log level string
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", level)
	}
}
