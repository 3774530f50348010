package bart

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ActionSource yields the next player action, blocking until one exists
// or ctx ends.
type ActionSource interface {
	Next(ctx context.Context) (Action, error)
}

// ActionSourceFunc adapts a function to ActionSource.
type ActionSourceFunc func(ctx context.Context) (Action, error)

func (f ActionSourceFunc) Next(ctx context.Context) (Action, error) { return f(ctx) }

// ScriptedSource replays a fixed list of actions.
type ScriptedSource struct {
	Actions []Action
	pos     int
}

func NewScriptedSource(actions ...Action) *ScriptedSource {
	return &ScriptedSource{Actions: actions}
}

func (s *ScriptedSource) Next(ctx context.Context) (Action, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.pos >= len(s.Actions) {
		return 0, ErrSourceExhausted
	}
	a := s.Actions[s.pos]
	s.pos++
	return a, nil
}

// Remaining is how many scripted actions are left.
func (s *ScriptedSource) Remaining() int { return len(s.Actions) - s.pos }

// ReaderSource reads one action per line. Blank lines and lines starting
// with '#' are skipped. Lines that do not parse are passed to OnInvalid
// (if set) and skipped.
//
// Lines are scanned on a separate goroutine so Next can return as soon as
// ctx ends. That goroutine stays parked in Read until the reader yields or
// is closed.
type ReaderSource struct {
	r         io.Reader
	start     sync.Once
	lines     chan scanned
	OnInvalid func(line string, err error)
}

type scanned struct {
	text string
	err  error
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, lines: make(chan scanned)}
}

func (s *ReaderSource) scan() {
	defer close(s.lines)
	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		s.lines <- scanned{text: sc.Text()}
	}
	if err := sc.Err(); err != nil {
		s.lines <- scanned{err: err}
	}
}

func (s *ReaderSource) Next(ctx context.Context) (Action, error) {
	s.start.Do(func() { go s.scan() })
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		var (
			in scanned
			ok bool
		)
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case in, ok = <-s.lines:
		}
		if !ok {
			return 0, ErrSourceExhausted
		}
		if in.err != nil {
			return 0, fmt.Errorf("read action: %w", in.err)
		}
		line := strings.TrimSpace(in.text)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := ParseAction(line)
		if err != nil {
			if s.OnInvalid != nil {
				s.OnInvalid(line, err)
			}
			continue
		}
		return a, nil
	}
}

// TargetStrategy pumps until the current round reaches Target pumps, then
// collects. It reads the round from the Orchestrator it is bound to.
type TargetStrategy struct {
	Target int
	orch   *Orchestrator
}

// Bind returns a source that plays o with this strategy.
func (t TargetStrategy) Bind(o *Orchestrator) *TargetStrategy {
	return &TargetStrategy{Target: t.Target, orch: o}
}

func (t *TargetStrategy) Next(ctx context.Context) (Action, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if t.orch == nil {
		return 0, errors.New("target strategy is not bound to an orchestrator")
	}
	if t.orch.Current().PumpCount < t.Target {
		return ActionPump, nil
	}
	return ActionCollect, nil
}
