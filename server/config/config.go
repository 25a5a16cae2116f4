// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`
	// DBPath selects the SQLite store; empty keeps everything in memory.
	DBPath            string        `env:"DB_PATH"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	GinMode           string        `env:"GIN_MODE" envDefault:"release"`
	AdminAccounts     []string      `env:"ADMIN_ACCOUNTS" envSeparator:","`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DBPath = strings.TrimSpace(cfg.DBPath)

	admins := make([]string, 0, len(cfg.AdminAccounts))
	for _, account := range cfg.AdminAccounts {
		if trimmed := strings.ToLower(strings.TrimSpace(account)); trimmed != "" {
			admins = append(admins, trimmed)
		}
	}
	cfg.AdminAccounts = admins
	return cfg, nil
}

// IsAdminAccount reports whether account (an email) is listed in ADMIN_ACCOUNTS.
func (c Config) IsAdminAccount(account string) bool {
	normalized := strings.ToLower(strings.TrimSpace(account))
	if normalized == "" {
		return false
	}
	for _, admin := range c.AdminAccounts {
		if admin == normalized {
			return true
		}
	}
	return false
}
