package bart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// recordingObserver keeps every event for inspection.
type recordingObserver struct {
	started  []Progress
	applied  []Progress
	finished []Outcome
	summary  *Summary
}

func (r *recordingObserver) RoundStarted(p Progress)            { r.started = append(r.started, p) }
func (r *recordingObserver) ActionApplied(_ Action, p Progress) { r.applied = append(r.applied, p) }
func (r *recordingObserver) RoundFinished(o Outcome)            { r.finished = append(r.finished, o) }
func (r *recordingObserver) TaskFinished(s Summary)             { r.summary = &s }

func dollars(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Scenario A then B: collect 5 on a 10-point balloon, then pop a 3-point one.
func TestOrchestratorCollectThenPop(t *testing.T) {
	cfg := NewConfig(2, 1, 20, dollars("0.01"))
	rec := &recordingObserver{}
	o := NewOrchestrator(cfg, NewGenerator(newSequenceRNG(t, 0.5, 0.12)), rec)

	if o.Current().ExplosionPoint != 10 {
		t.Fatalf("round 1 explosion point = %d", o.Current().ExplosionPoint)
	}
	for i := 0; i < 5; i++ {
		if _, err := o.Apply(ActionPump); err != nil {
			t.Fatal(err)
		}
	}
	if p := o.Progress(); !p.EarningsSoFar.Equal(dollars("0.05")) || p.PumpCount != 5 {
		t.Fatalf("live progress: %+v", p)
	}
	p, err := o.Apply(ActionCollect)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != StatusCashedOut || p.PumpCount != 5 || p.Trial != 1 {
		t.Fatalf("round 1 result: %+v", p)
	}
	if got := o.Ledger().AggregateCashedOutPumps(); got != 5 {
		t.Fatalf("aggregate after A = %d", got)
	}
	if got := o.Ledger().TotalEarnings(cfg.PayoutPerPump); !got.Equal(dollars("0.05")) {
		t.Fatalf("total after A = %s", got)
	}

	// round 2 started only after round 1 was recorded
	if o.Current().Trial != 2 || o.Current().ExplosionPoint != 3 {
		t.Fatalf("round 2: %+v", o.Current())
	}
	for i := 1; i <= 3; i++ {
		p, err = o.Apply(ActionPump)
		if err != nil {
			t.Fatalf("pump %d: %v", i, err)
		}
	}
	if p.Status != StatusPopped || p.PumpCount != 3 {
		t.Fatalf("round 2 should pop on the 3rd pump: %+v", p)
	}
	if !o.Done() {
		t.Fatal("task should be done after 2 rounds")
	}
	// pumps 4 and 5 arrive after the task ended
	if _, err := o.Apply(ActionPump); !errors.Is(err, ErrTaskDone) {
		t.Fatalf("err=%v want ErrTaskDone", err)
	}

	sum := o.Summary()
	if sum.AggregatePumps != 5 || !sum.TotalEarnings.Equal(dollars("0.05")) || len(sum.Rounds) != 2 {
		t.Fatalf("summary: %+v", sum)
	}
	if sum.Rounds[1].Status != StatusPopped || sum.Rounds[1].PumpCount != 3 || sum.Rounds[1].Trial != 2 {
		t.Fatalf("round 2 entry: %+v", sum.Rounds[1])
	}

	if len(rec.started) != 2 || len(rec.applied) != 9 || len(rec.finished) != 2 || rec.summary == nil {
		t.Fatalf("events: started=%d applied=%d finished=%d summary=%v",
			len(rec.started), len(rec.applied), len(rec.finished), rec.summary != nil)
	}
	if out := rec.finished[1]; out.AggregatePumps != 5 || !out.RoundEarnings.IsZero() || out.ExplosionPoint != 3 {
		t.Fatalf("round 2 outcome: %+v", out)
	}
	if out := rec.finished[0]; !out.RoundEarnings.Equal(dollars("0.05")) || !out.TotalEarnings.Equal(dollars("0.05")) {
		t.Fatalf("round 1 outcome: %+v", out)
	}
}

func TestRunAllScripted(t *testing.T) {
	cfg := NewConfig(2, 1, 20, dollars("0.01"))
	src := NewScriptedSource(append(append(repeat(ActionPump, 5), ActionCollect), repeat(ActionPump, 3)...)...)
	sum, err := RunAll(context.Background(), cfg, NewGenerator(newSequenceRNG(t, 0.5, 0.12)), src)
	if err != nil {
		t.Fatal(err)
	}
	if sum.AggregatePumps != 5 || !sum.TotalEarnings.Equal(dollars("0.05")) {
		t.Fatalf("summary: %+v", sum)
	}
	if src.Remaining() != 0 {
		t.Fatalf("source should be drained, %d left", src.Remaining())
	}
}

// Scenario C: zero trials is corrected to one.
func TestRunAllZeroTrialsRunsOne(t *testing.T) {
	cfg := NewConfig(0, 1, 20, dollars("0.01"))
	src := NewScriptedSource(ActionPump, ActionCollect, ActionPump, ActionCollect)
	sum, err := RunAll(context.Background(), cfg, NewGenerator(newSequenceRNG(t, 0.9)), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Rounds) != 1 {
		t.Fatalf("rounds=%d want 1", len(sum.Rounds))
	}
	if src.Remaining() != 2 {
		t.Fatalf("only one round's actions should be consumed; %d left", src.Remaining())
	}
}

func TestRunAllSingleValueRangeAlwaysPops(t *testing.T) {
	cfg := NewConfig(4, 1, 1, dollars("0.01"))
	sum, err := RunAll(context.Background(), cfg, NewGenerator(NewSeededRNG(3)), NewScriptedSource(repeat(ActionPump, 4)...))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range sum.Rounds {
		if r.ExplosionPoint != 1 || r.Status != StatusPopped || r.PumpCount != 1 {
			t.Fatalf("round %d: %+v", r.Trial, r)
		}
	}
	if sum.AggregatePumps != 0 || !sum.TotalEarnings.IsZero() {
		t.Fatalf("summary: %+v", sum)
	}
}

func TestRunAllSourceExhausted(t *testing.T) {
	cfg := NewConfig(3, 5, 10, dollars("0.01"))
	o := NewOrchestrator(cfg, NewGenerator(NewSeededRNG(1)), nil)
	sum, err := o.RunAll(context.Background(), NewScriptedSource(ActionCollect))
	if !errors.Is(err, ErrSourceExhausted) {
		t.Fatalf("err=%v want ErrSourceExhausted", err)
	}
	if len(sum.Rounds) != 1 || o.Done() {
		t.Fatalf("one round should be recorded; summary=%+v done=%v", sum, o.Done())
	}
	if o.Current().Trial != 2 || o.Current().Status != StatusInProgress {
		t.Fatalf("round 2 should wait for input: %+v", o.Current())
	}
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := NewConfig(3, 5, 10, dollars("0.01"))
	calls := 0
	src := ActionSourceFunc(func(ctx context.Context) (Action, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return ActionPump, nil
	})
	o := NewOrchestrator(cfg, NewGenerator(NewSeededRNG(1)), nil)
	_, err := o.RunAll(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if o.Current().PumpCount != 2 {
		t.Fatalf("pump count=%d want 2", o.Current().PumpCount)
	}
}

func TestOrchestratorDoesNotSampleAhead(t *testing.T) {
	cfg := NewConfig(3, 1, 20, dollars("0.01"))
	rng := newSequenceRNG(t, 0.5, 0.5, 0.5)
	o := NewOrchestrator(cfg, NewGenerator(rng), nil)
	if rng.pos != 1 {
		t.Fatalf("only round 1 should be sampled at start; drew %d", rng.pos)
	}
	if _, err := o.Apply(ActionCollect); err != nil {
		t.Fatal(err)
	}
	if rng.pos != 2 {
		t.Fatalf("round 2 sampled when round 1 ended; drew %d", rng.pos)
	}
}
