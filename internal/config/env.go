// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server is the HTTP binary's environment.
type Server struct {
	Addr          string        `env:"BART_ADDR" envDefault:":8080"`
	ConfigDir     string        `env:"BART_CONFIG_DIR" envDefault:"config"`
	SQLitePath    string        `env:"BART_SQLITE_PATH"`
	WatchInterval time.Duration `env:"BART_WATCH_INTERVAL" envDefault:"2s"`
	SessionTTL    time.Duration `env:"BART_SESSION_TTL" envDefault:"6h"`
	WatchTasks    []string      `env:"BART_WATCH_TASKS" envSeparator:","`
}

// Runner is the terminal binary's environment; flags override it.
type Runner struct {
	ConfigDir  string `env:"BART_CONFIG_DIR" envDefault:"config"`
	SQLitePath string `env:"BART_SQLITE_PATH"`
	Task       string `env:"BART_TASK"`
	Variant    string `env:"BART_VARIANT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
