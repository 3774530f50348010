package bart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is a round's position in its state machine.
type Status int

const (
	StatusInProgress Status = iota
	StatusPopped
	StatusCashedOut
)

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusPopped:
		return "popped"
	case StatusCashedOut:
		return "cashed_out"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether no further action may change the round.
func (s Status) Terminal() bool { return s == StatusPopped || s == StatusCashedOut }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "in_progress":
		*s = StatusInProgress
	case "popped":
		*s = StatusPopped
	case "cashed_out":
		*s = StatusCashedOut
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Round is one balloon: InProgress -> Popped | CashedOut.
// ExplosionPoint is fixed at creation and PumpCount only grows while InProgress.
type Round struct {
	Trial          int    `json:"trial"` // 1-based position in the task
	ExplosionPoint int    `json:"-"`
	PumpCount      int    `json:"pump_count"`
	Status         Status `json:"status"`
}

// NewRound starts a round in progress with zero pumps.
func NewRound(trial, explosionPoint int) *Round {
	return &Round{Trial: trial, ExplosionPoint: explosionPoint}
}

// Pump inflates once; reaching the explosion point pops the balloon.
func (r *Round) Pump() error {
	if r.Status.Terminal() {
		return fmt.Errorf("pump on trial %d: %w (%s)", r.Trial, ErrRoundOver, r.Status)
	}
	r.PumpCount++
	if r.PumpCount >= r.ExplosionPoint {
		r.Status = StatusPopped
	}
	return nil
}

// Collect banks the current pumps and ends the round.
func (r *Round) Collect() error {
	if r.Status.Terminal() {
		return fmt.Errorf("collect on trial %d: %w (%s)", r.Trial, ErrRoundOver, r.Status)
	}
	r.Status = StatusCashedOut
	return nil
}

// Apply dispatches a to Pump or Collect.
func (r *Round) Apply(a Action) error {
	switch a {
	case ActionPump:
		return r.Pump()
	case ActionCollect:
		return r.Collect()
	}
	return fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
}

// Terminal reports whether the round has popped or been cashed out.
func (r *Round) Terminal() bool { return r.Status.Terminal() }

// EarningsSoFar is what collecting now would bank (shown live while pumping).
func (r *Round) EarningsSoFar(payoutPerPump decimal.Decimal) decimal.Decimal {
	return payoutPerPump.Mul(decimal.NewFromInt(int64(r.PumpCount)))
}

// Earnings is what the round banked: zero unless cashed out.
func (r *Round) Earnings(payoutPerPump decimal.Decimal) decimal.Decimal {
	if r.Status != StatusCashedOut {
		return decimal.Zero
	}
	return r.EarningsSoFar(payoutPerPump)
}

// BankedPumps is PumpCount for a cashed-out round and 0 otherwise.
func (r *Round) BankedPumps() int {
	if r.Status != StatusCashedOut {
		return 0
	}
	return r.PumpCount
}
