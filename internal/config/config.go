// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures runtime settings for the checkout API server.
type Config struct {
	ListenAddr        string        `env:"LISTEN_ADDR" envDefault:":8880"`
	RedisURL          string        `env:"REDIS_URL"`
	CashfreeAppID     string        `env:"CASHFREE_APP_ID"`
	CashfreeSecretKey string        `env:"CASHFREE_SECRET_KEY"`
	ReturnURL         string        `env:"RETURN_URL"`
	ProfileBaseURL    string        `env:"PROFILE_BASE_URL"`
	ProxyBaseURL      string        `env:"PROXY_BASE_URL"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT" envDefault:"8s"`
}

// FromEnv constructs a Config from environment variables with defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: fetch timeout must be positive")
	}
	if (c.CashfreeAppID == "") != (c.CashfreeSecretKey == "") {
		return fmt.Errorf("config: cashfree app id and secret key must be set together")
	}
	return nil
}
