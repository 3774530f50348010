// resolve.go
package task

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/money"
)

// Overrides carries per-request values that win over every file.
type Overrides struct {
	NumTrials *int
	MinPumps  *int
	MaxPumps  *int
	PerPump   *string
	Currency  *string
}

type Resolver interface {
	// Returns merged RawConfig and the clamped Settings
	Resolve(task, variant string, o Overrides) (RawConfig, Settings, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges default → task → variant → overrides and builds the
// core config. Missing values take the bart defaults; out-of-range values
// are corrected and logged.
func (l *Loader) Resolve(task, variant string, o Overrides) (RawConfig, Settings, error) {
	raw, err := l.LoadMerged(task, variant)
	if err != nil {
		return RawConfig{}, Settings{}, err
	}
	raw = applyOverrides(raw, o)
	if err := ValidateRaw(raw); err != nil {
		return raw, Settings{}, err
	}
	s, err := ToSettings(raw)
	if err != nil {
		return raw, Settings{}, err
	}
	for _, c := range Corrections(raw, s) {
		log.Printf("[WARN] task %q: corrected %s", cacheKey(task, variant), c)
	}
	return raw, s, nil
}

// ToSettings converts a validated RawConfig, filling gaps with defaults.
func ToSettings(raw RawConfig) (Settings, error) {
	trials := intOr(raw.Trials.Count, bart.DefaultNumTrials)
	minP := intOr(raw.Pumps.Min, bart.DefaultMinPumps)
	maxP := intOr(raw.Pumps.Max, bart.DefaultMaxPumps)

	payout := bart.DefaultPayoutPerPump
	code := money.DefaultCurrency
	if raw.Payout != nil {
		if raw.Payout.PerPump != "" {
			d, err := decimal.NewFromString(raw.Payout.PerPump)
			if err != nil {
				return Settings{}, fmt.Errorf("%w: payout.per_pump: %v", ErrInvalidConfig, err)
			}
			payout = d
		}
		if raw.Payout.Currency != "" {
			u, err := money.ParseCurrency(raw.Payout.Currency)
			if err != nil {
				return Settings{}, fmt.Errorf("%w: payout.currency: %v", ErrInvalidConfig, err)
			}
			code = u.String()
		}
	}

	return Settings{
		Config:   bart.NewConfig(trials, minP, maxP, payout),
		Currency: code,
		Version:  raw.Version,
	}, nil
}

func applyOverrides(raw RawConfig, o Overrides) RawConfig {
	if o.NumTrials != nil {
		raw.Trials.Count = o.NumTrials
	}
	if o.MinPumps != nil {
		raw.Pumps.Min = o.MinPumps
	}
	if o.MaxPumps != nil {
		raw.Pumps.Max = o.MaxPumps
	}
	if o.PerPump != nil || o.Currency != nil {
		p := PayoutConfig{}
		if raw.Payout != nil {
			p = *raw.Payout
		}
		if o.PerPump != nil {
			p.PerPump = *o.PerPump
		}
		if o.Currency != nil {
			p.Currency = *o.Currency
		}
		raw.Payout = &p
	}
	return raw
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
