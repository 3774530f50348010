package server

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/bart-backend/internal/bart"
)

// CreateSessionRequest starts a task. Pointer fields override the YAML.
type CreateSessionRequest struct {
	Task      string  `json:"task"`
	Variant   string  `json:"variant,omitempty"`
	Seed      *uint64 `json:"seed,omitempty"`
	NumTrials *int    `json:"num_trials,omitempty"`
	MinPumps  *int    `json:"min_pumps,omitempty"`
	MaxPumps  *int    `json:"max_pumps,omitempty"`
	PerPump   *string `json:"payout_per_pump,omitempty"`
	Currency  *string `json:"currency,omitempty"`
}

// ActionRequest carries one participant choice.
type ActionRequest struct {
	Action *bart.Action `json:"action"`
}

type ConfigView struct {
	NumTrials            int             `json:"num_trials"`
	MinPumps             int             `json:"min_pumps"`
	MaxPumps             int             `json:"max_pumps"`
	PayoutPerPump        decimal.Decimal `json:"payout_per_pump"`
	PayoutPerPumpDisplay string          `json:"payout_per_pump_display"`
	Currency             string          `json:"currency"`
	Version              string          `json:"version,omitempty"`
}

type ProgressView struct {
	Trial                int             `json:"trial"`
	PumpCount            int             `json:"pump_count"`
	Status               bart.Status     `json:"status"`
	EarningsSoFar        decimal.Decimal `json:"earnings_so_far"`
	EarningsSoFarDisplay string          `json:"earnings_so_far_display"`
}

// RoundView reveals the explosion point only for finished rounds.
type RoundView struct {
	Trial          int         `json:"trial"`
	PumpCount      int         `json:"pump_count"`
	Status         bart.Status `json:"status"`
	ExplosionPoint int         `json:"explosion_point"`
}

type OutcomeView struct {
	RoundView
	RoundEarnings        decimal.Decimal `json:"round_earnings"`
	RoundEarningsDisplay string          `json:"round_earnings_display"`
	AggregatePumps       int             `json:"aggregate_pumps"`
	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	TotalEarningsDisplay string          `json:"total_earnings_display"`
}

type SessionView struct {
	ID                   string          `json:"id"`
	Task                 string          `json:"task"`
	Variant              string          `json:"variant,omitempty"`
	Config               ConfigView      `json:"config"`
	Current              *ProgressView   `json:"current,omitempty"` // nil once done
	LastOutcome          *OutcomeView    `json:"last_outcome,omitempty"`
	Rounds               []RoundView     `json:"rounds"`
	AggregatePumps       int             `json:"aggregate_pumps"`
	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	TotalEarningsDisplay string          `json:"total_earnings_display"`
	Done                 bool            `json:"done"`
}

type SimulateResponse struct {
	Config           ConfigView `json:"config"`
	Target           int        `json:"target"`
	Seed             uint64     `json:"seed"`
	Stats            bart.Stats `json:"stats"`
	ExpectedPerRound float64    `json:"expected_banked_pumps_per_round"`
}

type errorResponse struct {
	Error string `json:"error"`
}
