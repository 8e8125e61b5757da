package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWorkerEnabled       = "LECTIO_WORKER_ENABLED"
	EnvWorkerInterval      = "LECTIO_WORKER_INTERVAL"
	EnvWorkerMaxInputChars = "LECTIO_WORKER_MAX_INPUT_CHARS"
)

// WorkerConfig holds settings for the background check worker.
type WorkerConfig struct {
	Enabled       bool   `toml:"enabled"`
	Interval      string `toml:"interval"`
	MaxInputChars int    `toml:"max_input_chars"`
}

// IntervalDuration returns Interval as a time.Duration.
func (c *WorkerConfig) IntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Interval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *WorkerConfig) Merge(overlay *WorkerConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Interval != "" {
		c.Interval = overlay.Interval
	}
	if overlay.MaxInputChars != 0 {
		c.MaxInputChars = overlay.MaxInputChars
	}
}

func (c *WorkerConfig) loadDefaults() {
	if c.Interval == "" {
		c.Interval = "5s"
	}
	if c.MaxInputChars == 0 {
		c.MaxInputChars = 2500
	}
}

func (c *WorkerConfig) loadEnv() {
	if v := os.Getenv(EnvWorkerEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvWorkerInterval); v != "" {
		c.Interval = v
	}
	if v := os.Getenv(EnvWorkerMaxInputChars); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxInputChars = n
		}
	}
}

func (c *WorkerConfig) validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}
	if c.MaxInputChars < 1 {
		return fmt.Errorf("max_input_chars must be positive")
	}
	return nil
}
