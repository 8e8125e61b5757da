package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvNotifyEnabled  = "LECTIO_NOTIFY_ENABLED"
	EnvNotifyHost     = "LECTIO_NOTIFY_SMTP_HOST"
	EnvNotifyPort     = "LECTIO_NOTIFY_SMTP_PORT"
	EnvNotifyUser     = "LECTIO_NOTIFY_SMTP_USER"
	EnvNotifyPassword = "LECTIO_NOTIFY_SMTP_PASSWORD"
	EnvNotifyFrom     = "LECTIO_NOTIFY_FROM"
)

// NotifyConfig holds SMTP settings for workflow notifications.
type NotifyConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"smtp_host"`
	Port     int    `toml:"smtp_port"`
	User     string `toml:"smtp_user"`
	Password string `toml:"smtp_password"`
	From     string `toml:"from"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NotifyConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *NotifyConfig) Merge(overlay *NotifyConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.User != "" {
		c.User = overlay.User
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
}

func (c *NotifyConfig) loadDefaults() {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = "lectio@localhost"
	}
}

func (c *NotifyConfig) loadEnv() {
	if v := os.Getenv(EnvNotifyEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvNotifyHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvNotifyPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(EnvNotifyUser); v != "" {
		c.User = v
	}
	if v := os.Getenv(EnvNotifyPassword); v != "" {
		c.Password = v
	}
	if v := os.Getenv(EnvNotifyFrom); v != "" {
		c.From = v
	}
}

func (c *NotifyConfig) validate() error {
	if c.Enabled && c.Host == "" {
		return fmt.Errorf("smtp_host required when notify enabled")
	}
	return nil
}
