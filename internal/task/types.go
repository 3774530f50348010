// types.go
package task

import "github.com/xtding233/bart-backend/internal/bart"

// Raw config loaded from YAML.
type RawConfig struct {
	Version string        `yaml:"version"`
	Trials  TrialsConfig  `yaml:"trials"`
	Pumps   PumpsConfig   `yaml:"pumps"`
	Payout  *PayoutConfig `yaml:"payout,omitempty"`
	Notes   string        `yaml:"notes,omitempty"`
}

type TrialsConfig struct {
	Count *int `yaml:"count"`
}

type PumpsConfig struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type PayoutConfig struct {
	PerPump  string `yaml:"per_pump"` // decimal string, e.g. "0.01"
	Currency string `yaml:"currency"` // ISO 4217, e.g. "USD"
}

// Settings is a resolved task: the core config plus presentation metadata.
type Settings struct {
	Config   bart.Config
	Currency string
	Version  string // effective config version for tracing
}
