package bart

import "github.com/shopspring/decimal"

// Defaults used by the original task.
const (
	DefaultNumTrials = 5
	DefaultMinPumps  = 1
	DefaultMaxPumps  = 20
)

// DefaultPayoutPerPump is one cent per pump.
var DefaultPayoutPerPump = decimal.New(1, -2)

// Config holds the validated task constants. Build it with NewConfig.
type Config struct {
	NumTrials     int
	MinPumps      int
	MaxPumps      int
	PayoutPerPump decimal.Decimal
}

// NewConfig corrects out-of-range input instead of rejecting it:
// - integer fields below 1 become 1
// - maxPumps below minPumps is raised to minPumps (degenerate range)
// - a non-positive payout falls back to DefaultPayoutPerPump
func NewConfig(numTrials, minPumps, maxPumps int, payoutPerPump decimal.Decimal) Config {
	if numTrials < 1 {
		numTrials = 1
	}
	if minPumps < 1 {
		minPumps = 1
	}
	if maxPumps < 1 {
		maxPumps = 1
	}
	if maxPumps < minPumps {
		maxPumps = minPumps
	}
	if !payoutPerPump.IsPositive() {
		payoutPerPump = DefaultPayoutPerPump
	}
	return Config{
		NumTrials:     numTrials,
		MinPumps:      minPumps,
		MaxPumps:      maxPumps,
		PayoutPerPump: payoutPerPump,
	}
}

// DefaultConfig returns 5 trials, 1..20 pumps, 0.01 per pump.
func DefaultConfig() Config {
	return NewConfig(DefaultNumTrials, DefaultMinPumps, DefaultMaxPumps, DefaultPayoutPerPump)
}

// Degenerate reports whether every explosion point equals MinPumps.
func (c Config) Degenerate() bool { return c.MaxPumps == c.MinPumps }

// Earnings converts a pump count into money at this config's rate.
func (c Config) Earnings(pumps int) decimal.Decimal {
	return c.PayoutPerPump.Mul(decimal.NewFromInt(int64(pumps)))
}
