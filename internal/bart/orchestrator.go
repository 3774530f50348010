package bart

import (
	"context"
	"fmt"
)

// Orchestrator drives NumTrials rounds: sample, play, record, repeat.
// It is a passive receiver; whoever holds it feeds one action at a time,
// either through Apply or by handing RunAll an ActionSource.
// An Orchestrator is not safe for concurrent use; callers serialize.
type Orchestrator struct {
	cfg    Config
	gen    *Generator
	obs    Observer
	ledger *Ledger

	current *Round
	done    bool
}

// NewOrchestrator starts round 1. A nil gen uses DefaultRNG and a nil obs
// discards events.
func NewOrchestrator(cfg Config, gen *Generator, obs Observer) *Orchestrator {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	if obs == nil {
		obs = NopObserver{}
	}
	o := &Orchestrator{
		cfg:    cfg,
		gen:    gen,
		obs:    obs,
		ledger: NewLedger(),
	}
	o.startRound()
	return o
}

func (o *Orchestrator) Config() Config  { return o.cfg }
func (o *Orchestrator) Ledger() *Ledger { return o.ledger }
func (o *Orchestrator) Done() bool      { return o.done }

// Current returns a copy of the round being played, or of the last round
// once the task is done.
func (o *Orchestrator) Current() Round { return *o.current }

// Progress is the live view of Current.
func (o *Orchestrator) Progress() Progress {
	return Progress{
		Trial:         o.current.Trial,
		NumTrials:     o.cfg.NumTrials,
		PumpCount:     o.current.PumpCount,
		Status:        o.current.Status,
		EarningsSoFar: o.current.EarningsSoFar(o.cfg.PayoutPerPump),
	}
}

// Apply feeds one action to the current round. When the round ends it is
// appended to the ledger and the next round starts, unless it was the last.
func (o *Orchestrator) Apply(a Action) (Progress, error) {
	if o.done {
		return o.Progress(), ErrTaskDone
	}
	if err := o.current.Apply(a); err != nil {
		return o.Progress(), err
	}
	p := o.Progress()
	o.obs.ActionApplied(a, p)
	if !o.current.Terminal() {
		return p, nil
	}
	if err := o.finishRound(); err != nil {
		return p, err
	}
	return p, nil
}

// Summary reports the ledger as it stands; after Done it is the final recap.
func (o *Orchestrator) Summary() Summary {
	entries := o.ledger.Entries()
	pumps := sumBanked(entries)
	return Summary{
		Rounds:         entries,
		AggregatePumps: pumps,
		TotalEarnings:  o.cfg.Earnings(pumps),
	}
}

// RunAll pulls actions from src until every round is finished.
// Cancelling ctx stops between actions; the ledger keeps what finished.
func (o *Orchestrator) RunAll(ctx context.Context, src ActionSource) (Summary, error) {
	for !o.done {
		if err := ctx.Err(); err != nil {
			return o.Summary(), err
		}
		a, err := src.Next(ctx)
		if err != nil {
			return o.Summary(), fmt.Errorf("trial %d: next action: %w", o.current.Trial, err)
		}
		if _, err := o.Apply(a); err != nil {
			return o.Summary(), err
		}
	}
	return o.Summary(), nil
}

// RunAll plays a whole task with a fresh Orchestrator.
func RunAll(ctx context.Context, cfg Config, gen *Generator, src ActionSource) (Summary, error) {
	return NewOrchestrator(cfg, gen, nil).RunAll(ctx, src)
}

func (o *Orchestrator) startRound() {
	trial := o.ledger.Len() + 1
	o.current = NewRound(trial, o.gen.Sample(o.cfg))
	o.obs.RoundStarted(o.Progress())
}

func (o *Orchestrator) finishRound() error {
	r := *o.current
	if err := o.ledger.Append(r); err != nil {
		return err
	}
	pumps := o.ledger.AggregateCashedOutPumps()
	o.obs.RoundFinished(Outcome{
		Round:          r,
		ExplosionPoint: r.ExplosionPoint,
		RoundEarnings:  r.Earnings(o.cfg.PayoutPerPump),
		AggregatePumps: pumps,
		TotalEarnings:  o.cfg.Earnings(pumps),
	})
	if o.ledger.Len() >= o.cfg.NumTrials {
		o.done = true
		o.obs.TaskFinished(o.Summary())
		return nil
	}
	o.startRound()
	return nil
}
