package bart

import "github.com/shopspring/decimal"

// Progress is the live view of the round being played.
type Progress struct {
	Trial         int             `json:"trial"`
	NumTrials     int             `json:"num_trials"`
	PumpCount     int             `json:"pump_count"`
	Status        Status          `json:"status"`
	EarningsSoFar decimal.Decimal `json:"earnings_so_far"`
}

// Outcome describes a round that just finished, with the ledger totals after it.
type Outcome struct {
	Round          Round           `json:"round"`
	ExplosionPoint int             `json:"explosion_point"`
	RoundEarnings  decimal.Decimal `json:"round_earnings"`
	AggregatePumps int             `json:"aggregate_pumps"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
}

// Summary is the closing recap of a task.
type Summary struct {
	Rounds         []Round         `json:"rounds"`
	AggregatePumps int             `json:"aggregate_pumps"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
}

// Observer is the presentation sink. Calls happen on the goroutine that
// drives the Orchestrator, in order.
type Observer interface {
	RoundStarted(p Progress)
	ActionApplied(a Action, p Progress)
	RoundFinished(o Outcome)
	TaskFinished(s Summary)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) RoundStarted(Progress)          {}
func (NopObserver) ActionApplied(Action, Progress) {}
func (NopObserver) RoundFinished(Outcome)          {}
func (NopObserver) TaskFinished(Summary)           {}

// Observers fans each event out in slice order.
type Observers []Observer

func (obs Observers) RoundStarted(p Progress) {
	for _, o := range obs {
		o.RoundStarted(p)
	}
}

func (obs Observers) ActionApplied(a Action, p Progress) {
	for _, o := range obs {
		o.ActionApplied(a, p)
	}
}

func (obs Observers) RoundFinished(out Outcome) {
	for _, o := range obs {
		o.RoundFinished(out)
	}
}

func (obs Observers) TaskFinished(s Summary) {
	for _, o := range obs {
		o.TaskFinished(s)
	}
}
