// Package recorder persists per-trial data rows for later analysis.
package recorder

import (
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtding233/bart-backend/internal/bart"
)

// TaskName tags every row, as the experiment host's data store does.
const TaskName = "bart"

// TrialRow is one finished round.
type TrialRow struct {
	SessionID      string
	Task           string
	TrialNum       int
	PumpCount      int
	ExplosionPoint int
	Exploded       bool
	CashedOut      bool
	RoundEarnings  decimal.Decimal
	TotalEarnings  decimal.Decimal
	RecordedAt     time.Time
}

// SessionRow is a finished task's recap.
type SessionRow struct {
	SessionID      string
	Rounds         int
	AggregatePumps int
	TotalEarnings  decimal.Decimal
	Currency       string
	FinishedAt     time.Time
}

// Recorder stores rows. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordTrial(row TrialRow) error
	RecordSession(row SessionRow) error
	Close() error
}

// NoopRecorder drops everything.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (NoopRecorder) RecordTrial(TrialRow) error     { return nil }
func (NoopRecorder) RecordSession(SessionRow) error { return nil }
func (NoopRecorder) Close() error                   { return nil }

// RowFromOutcome converts a finished round into a data row.
func RowFromOutcome(sessionID string, o bart.Outcome, at time.Time) TrialRow {
	return TrialRow{
		SessionID:      sessionID,
		Task:           TaskName,
		TrialNum:       o.Round.Trial,
		PumpCount:      o.Round.PumpCount,
		ExplosionPoint: o.ExplosionPoint,
		Exploded:       o.Round.Status == bart.StatusPopped,
		CashedOut:      o.Round.Status == bart.StatusCashedOut,
		RoundEarnings:  o.RoundEarnings,
		TotalEarnings:  o.TotalEarnings,
		RecordedAt:     at,
	}
}

// Observer writes rows as an orchestrator reports them. Write failures are
// logged and never interrupt the session.
type Observer struct {
	bart.NopObserver
	SessionID string
	Currency  string
	Rec       Recorder
	Now       func() time.Time
}

func NewObserver(rec Recorder, sessionID, currency string) *Observer {
	return &Observer{SessionID: sessionID, Currency: currency, Rec: rec, Now: time.Now}
}

func (o *Observer) RoundFinished(out bart.Outcome) {
	if err := o.Rec.RecordTrial(RowFromOutcome(o.SessionID, out, o.Now())); err != nil {
		log.Printf("[WARN] record trial %d of session %s: %v", out.Round.Trial, o.SessionID, err)
	}
}

func (o *Observer) TaskFinished(s bart.Summary) {
	row := SessionRow{
		SessionID:      o.SessionID,
		Rounds:         len(s.Rounds),
		AggregatePumps: s.AggregatePumps,
		TotalEarnings:  s.TotalEarnings,
		Currency:       o.Currency,
		FinishedAt:     o.Now(),
	}
	if err := o.Rec.RecordSession(row); err != nil {
		log.Printf("[WARN] record session %s: %v", o.SessionID, err)
	}
}
