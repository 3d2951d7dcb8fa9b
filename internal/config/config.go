// Package config loads server settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr               string `yaml:"addr"`
	DataDir            string `yaml:"data_dir"`
	LogLevel           string `yaml:"log_level"`
	DefaultWidth       int    `yaml:"default_width"`
	DefaultHeight      int    `yaml:"default_height"`
	DefaultPlayerLimit int    `yaml:"default_player_limit"`
}

func Default() Config {
	return Config{
		Addr:               ":8090",
		DataDir:            "data",
		LogLevel:           "info",
		DefaultWidth:       20,
		DefaultHeight:      20,
		DefaultPlayerLimit: 2,
	}
}

// Load reads path over the defaults; an empty path returns the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalidConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DefaultWidth <= 0 || c.DefaultHeight <= 0 || c.DefaultPlayerLimit <= 0 {
		return fmt.Errorf("%w: default board settings must be positive", ErrInvalidConfig)
	}
	return nil
}

// DatabasePath is the SQLite file inside the data directory
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "quintro.db")
}

// ParseLevel maps debug|info|warn|error onto slog levels
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
}
