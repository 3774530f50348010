package bart

import "testing"

// sequenceRNG returns scripted values and fails the test when it runs dry.
type sequenceRNG struct {
	t    *testing.T
	vals []float64
	pos  int
}

func newSequenceRNG(t *testing.T, vals ...float64) *sequenceRNG {
	return &sequenceRNG{t: t, vals: vals}
}

func (s *sequenceRNG) Float64() float64 {
	if s.pos >= len(s.vals) {
		s.t.Fatalf("sequenceRNG exhausted after %d values", len(s.vals))
	}
	v := s.vals[s.pos]
	s.pos++
	return v
}

func repeat(a Action, n int) []Action {
	out := make([]Action, n)
	for i := range out {
		out[i] = a
	}
	return out
}
