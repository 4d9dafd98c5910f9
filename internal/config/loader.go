// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the event scheduling service.
type Config struct {
	HTTPPort        int           `yaml:"http_port"`
	SQLiteDSN       string        `yaml:"sqlite_dsn"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	FeedBufferSize  int           `yaml:"feed_buffer_size"`
}

func defaults() Config {
	return Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:alamiya.db?_foreign_keys=on",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
		FeedBufferSize:  16,
	}
}

// Load reads the YAML file at path when it exists, then applies ALAMIYA_*
// environment overrides on top. An empty path skips the file entirely.
//
// The loader applies sensible defaults for optional fields while validating
// value shapes and reporting every offending key at once.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Optional file; stay on defaults.
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ALAMIYA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ALAMIYA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ALAMIYA_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("ALAMIYA_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("ALAMIYA_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "ALAMIYA_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if bufferValue := strings.TrimSpace(os.Getenv("ALAMIYA_FEED_BUFFER_SIZE")); bufferValue != "" {
		size, err := strconv.Atoi(bufferValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "ALAMIYA_FEED_BUFFER_SIZE")
		} else {
			cfg.FeedBufferSize = size
		}
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	default:
		invalid = append(invalid, "log_level")
	}
	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "http_port")
	}
	if cfg.FeedBufferSize <= 0 {
		invalid = append(invalid, "feed_buffer_size")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
