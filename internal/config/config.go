// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the reverseclock YAML configuration and applies
// REVERSECLOCK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/reverseclock"
	"github.com/gogpu/reverseclock/internal/logger"
)

// Default values.
const (
	DefaultListen          = ":8080"
	DefaultSize            = "1000x1000"
	DefaultFormat          = "png"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultCacheSize       = 16
	DefaultMaxSide         = 2048
	DefaultMaxConcurrent   = 8
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultNTPSyncInterval = 10 * time.Minute
)

// Environment variables that override file values.
const (
	EnvListen    = "REVERSECLOCK_LISTEN"
	EnvSize      = "REVERSECLOCK_SIZE"
	EnvImage     = "REVERSECLOCK_IMAGE"
	EnvLogLevel  = "REVERSECLOCK_LOG_LEVEL"
	EnvNTPServer = "REVERSECLOCK_NTP_SERVER"
	EnvTimezone  = "REVERSECLOCK_TIMEZONE"
	EnvCacheSize = "REVERSECLOCK_CACHE_SIZE"
)

// NTP configures the NTP clock source. An empty server uses the system
// clock.
type NTP struct {
	Server             string        `yaml:"server"`
	SyncInterval       time.Duration `yaml:"sync_interval"`
	UnhealthyThreshold time.Duration `yaml:"unhealthy_threshold"`
}

// Server configures the HTTP server.
type Server struct {
	Listen        string        `yaml:"listen"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	CacheSize     int           `yaml:"cache_size"`     // renderers kept across all sizes
	MaxSide       int           `yaml:"max_side"`       // largest accepted width or height
	MaxConcurrent int           `yaml:"max_concurrent"` // frames rendered at once
}

// Config is the application configuration.
type Config struct {
	Size          string   `yaml:"size"`
	Image         string   `yaml:"image"`
	ImageRotation *float64 `yaml:"image_rotation"` // nil means the default tilt
	Format        string   `yaml:"format"`
	Timezone      string   `yaml:"timezone"`
	LogLevel      string   `yaml:"log_level"`
	LogFormat     string   `yaml:"log_format"`
	NTP           NTP      `yaml:"ntp"`
	Server        Server   `yaml:"server"`
}

// Load reads the configuration like Read and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Read reads the YAML file at path and applies defaults and environment
// overrides without validating, so callers can layer flags on top before
// calling Validate. An empty path skips the file.
func Read(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		// #nosec G304 -- path comes from the --config flag
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given, with
// environment overrides applied.
func Default() (*Config, error) {
	return Load("")
}

func applyDefaults(cfg *Config) {
	if cfg.Size == "" {
		cfg.Size = DefaultSize
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.NTP.SyncInterval == 0 {
		cfg.NTP.SyncInterval = DefaultNTPSyncInterval
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.CacheSize == 0 {
		cfg.Server.CacheSize = DefaultCacheSize
	}
	if cfg.Server.MaxSide == 0 {
		cfg.Server.MaxSide = DefaultMaxSide
	}
	if cfg.Server.MaxConcurrent == 0 {
		cfg.Server.MaxConcurrent = DefaultMaxConcurrent
	}
}

func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv(EnvListen); val != "" {
		cfg.Server.Listen = val
	}
	if val := os.Getenv(EnvSize); val != "" {
		cfg.Size = val
	}
	if val := os.Getenv(EnvImage); val != "" {
		cfg.Image = val
	}
	if val := os.Getenv(EnvLogLevel); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv(EnvNTPServer); val != "" {
		cfg.NTP.Server = val
	}
	if val := os.Getenv(EnvTimezone); val != "" {
		cfg.Timezone = val
	}
	if val := os.Getenv(EnvCacheSize); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s: must be an integer, got %q", EnvCacheSize, val)
		}
		cfg.Server.CacheSize = i
	}
	return nil
}

// Validate checks the configuration for values the program cannot use.
func (cfg *Config) Validate() error {
	w, h, err := reverseclock.ParseSize(cfg.Size)
	if err != nil {
		return fmt.Errorf("size: %w", err)
	}
	if w > cfg.Server.MaxSide || h > cfg.Server.MaxSide {
		return fmt.Errorf("size %s exceeds max_side %d", cfg.Size, cfg.Server.MaxSide)
	}

	switch cfg.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("format must be png or svg, got %q", cfg.Format)
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}

	if cfg.NTP.SyncInterval < 0 {
		return fmt.Errorf("ntp.sync_interval must be positive, got %s", cfg.NTP.SyncInterval)
	}
	if cfg.NTP.UnhealthyThreshold < 0 {
		return fmt.Errorf("ntp.unhealthy_threshold cannot be negative, got %s", cfg.NTP.UnhealthyThreshold)
	}

	if cfg.Server.CacheSize <= 0 {
		return fmt.Errorf("server.cache_size must be positive, got %d", cfg.Server.CacheSize)
	}
	if cfg.Server.MaxSide <= 0 {
		return fmt.Errorf("server.max_side must be positive, got %d", cfg.Server.MaxSide)
	}
	if cfg.Server.MaxConcurrent <= 0 {
		return fmt.Errorf("server.max_concurrent must be positive, got %d", cfg.Server.MaxConcurrent)
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 {
		return errors.New("server timeouts cannot be negative")
	}
	return nil
}
