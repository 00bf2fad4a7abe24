// Package config loads softchar settings from defaults, an optional YAML
// file and SOFTCHAR_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "SOFTCHAR_"

// MaxChunk is the largest read request a client may issue per round trip.
const MaxChunk = 4096

// Config holds the settings shared by every softchar command.
type Config struct {
	// BusDir is the FIFO bus directory shared by server and clients.
	BusDir string `yaml:"bus_dir" env:"BUS_DIR"`

	// Device is the device name clients open.
	Device string `yaml:"device" env:"DEVICE"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// JSONLog selects JSON log output instead of text.
	JSONLog bool `yaml:"json_log" env:"JSON_LOG"`

	// Chunk is the read size used by cat.
	Chunk int `yaml:"chunk" env:"CHUNK"`

	// LogCapacity is the number of kernel log entries the server keeps.
	LogCapacity int `yaml:"log_capacity" env:"LOG_CAPACITY"`

	// PollInterval is how often the server scans the bus directory.
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BusDir:       filepath.Join(os.TempDir(), "softchar-bus"),
		Device:       "softchar",
		LogLevel:     "warn",
		Chunk:        64,
		LogCapacity:  256,
		PollInterval: 100 * time.Millisecond,
	}
}

// Load builds a configuration. The YAML file at path is applied over the
// defaults when path is not empty, then environment variables are applied
// over the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.BusDir == "" {
		errs = append(errs, errors.New("bus_dir must not be empty"))
	}
	if c.Device == "" {
		errs = append(errs, errors.New("device must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Chunk < 1 || c.Chunk > MaxChunk {
		errs = append(errs, fmt.Errorf("chunk %d out of range [1, %d]", c.Chunk, MaxChunk))
	}
	if c.LogCapacity < 1 {
		errs = append(errs, fmt.Errorf("log_capacity %d must be positive", c.LogCapacity))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval %s must be positive", c.PollInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the parsed log level, or warn if LogLevel is invalid.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel parses a log level name. Matching is case-insensitive and
// "warning" is accepted for warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
