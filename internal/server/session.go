package server

import (
	"sync"
	"time"

	"github.com/xtding233/bart-backend/internal/bart"
	"github.com/xtding233/bart-backend/internal/money"
	"github.com/xtding233/bart-backend/internal/task"
)

// session is one participant's task. mu serializes actions, so the
// orchestrator sees one action at a time as it expects.
type session struct {
	mu       sync.Mutex
	id       string
	task     string
	variant  string
	settings task.Settings
	format   money.FormatFunc
	orch     *bart.Orchestrator
	last     *bart.Outcome
	created  time.Time
	touched  time.Time // last action, guarded by mu
}

// lastOutcome keeps the most recent finished round for the view.
type lastOutcome struct {
	bart.NopObserver
	s *session
}

func (l lastOutcome) RoundFinished(o bart.Outcome) { l.s.last = &o }

func (s *session) apply(a bart.Action, now time.Time) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = now
	_, err := s.orch.Apply(a)
	return s.viewLocked(), err
}

// idleSince is the time of the last action, or creation if none yet.
func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *session) view() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *session) viewLocked() SessionView {
	sum := s.orch.Summary()
	v := SessionView{
		ID:                   s.id,
		Task:                 s.task,
		Variant:              s.variant,
		Config:               configView(s.settings, s.format),
		Rounds:               make([]RoundView, 0, len(sum.Rounds)),
		AggregatePumps:       sum.AggregatePumps,
		TotalEarnings:        sum.TotalEarnings,
		TotalEarningsDisplay: s.format(sum.TotalEarnings),
		Done:                 s.orch.Done(),
	}
	for _, r := range sum.Rounds {
		v.Rounds = append(v.Rounds, roundView(r))
	}
	if !v.Done {
		p := s.orch.Progress()
		v.Current = &ProgressView{
			Trial:                p.Trial,
			PumpCount:            p.PumpCount,
			Status:               p.Status,
			EarningsSoFar:        p.EarningsSoFar,
			EarningsSoFarDisplay: s.format(p.EarningsSoFar),
		}
	}
	if s.last != nil {
		v.LastOutcome = &OutcomeView{
			RoundView:            roundView(s.last.Round),
			RoundEarnings:        s.last.RoundEarnings,
			RoundEarningsDisplay: s.format(s.last.RoundEarnings),
			AggregatePumps:       s.last.AggregatePumps,
			TotalEarnings:        s.last.TotalEarnings,
			TotalEarningsDisplay: s.format(s.last.TotalEarnings),
		}
	}
	return v
}

func roundView(r bart.Round) RoundView {
	return RoundView{
		Trial:          r.Trial,
		PumpCount:      r.PumpCount,
		Status:         r.Status,
		ExplosionPoint: r.ExplosionPoint,
	}
}

func configView(s task.Settings, format money.FormatFunc) ConfigView {
	return ConfigView{
		NumTrials:            s.Config.NumTrials,
		MinPumps:             s.Config.MinPumps,
		MaxPumps:             s.Config.MaxPumps,
		PayoutPerPump:        s.Config.PayoutPerPump,
		PayoutPerPumpDisplay: format(s.Config.PayoutPerPump),
		Currency:             s.Currency,
		Version:              s.Version,
	}
}
