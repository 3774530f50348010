package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xtding233/bart-backend/internal/money"
)

var ErrInvalidConfig = errors.New("invalid task config")

// ValidateRaw checks the values that cannot be corrected: text that does not
// parse. Out-of-range numbers are not errors here; Resolve clamps them.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if cfg.Payout != nil {
		if cfg.Payout.PerPump != "" {
			if _, err := decimal.NewFromString(cfg.Payout.PerPump); err != nil {
				errs = append(errs, fmt.Sprintf("payout.per_pump %q is not a decimal", cfg.Payout.PerPump))
			}
		}
		if cfg.Payout.Currency != "" {
			if _, err := money.ParseCurrency(cfg.Payout.Currency); err != nil {
				errs = append(errs, fmt.Sprintf("payout.currency %q is not an ISO 4217 code", cfg.Payout.Currency))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Corrections lists the fields NewConfig had to change, for logging.
func Corrections(cfg RawConfig, got Settings) []string {
	var out []string
	c := got.Config
	if cfg.Trials.Count != nil && *cfg.Trials.Count != c.NumTrials {
		out = append(out, fmt.Sprintf("trials.count %d -> %d", *cfg.Trials.Count, c.NumTrials))
	}
	if cfg.Pumps.Min != nil && *cfg.Pumps.Min != c.MinPumps {
		out = append(out, fmt.Sprintf("pumps.min %d -> %d", *cfg.Pumps.Min, c.MinPumps))
	}
	if cfg.Pumps.Max != nil && *cfg.Pumps.Max != c.MaxPumps {
		out = append(out, fmt.Sprintf("pumps.max %d -> %d", *cfg.Pumps.Max, c.MaxPumps))
	}
	if cfg.Payout != nil && cfg.Payout.PerPump != "" {
		if d, err := decimal.NewFromString(cfg.Payout.PerPump); err == nil && !d.Equal(c.PayoutPerPump) {
			out = append(out, fmt.Sprintf("payout.per_pump %s -> %s", d, c.PayoutPerPump))
		}
	}
	return out
}
