package bart

import (
	"context"
	"math"
	"sort"
)

// SimGoal selects what the simulation records per simulated task.
type SimGoal string

const (
	// Pumps banked over the whole task (what the participant is paid for).
	GoalBankedPumps SimGoal = "banked_pumps"
	// Number of rounds that popped.
	GoalPops SimGoal = "pops"
	// Pumps attempted over the whole task, banked or lost.
	GoalTotalPumps SimGoal = "total_pumps"
)

// SimParams describes the simulated player.
type SimParams struct {
	Target int    // pump this many times, then collect; <=0 collects immediately
	Seed   uint64 // seeds the explosion points; same seed, same tasks
}

// Stats summarizes simulation results.
type Stats struct {
	Goal    SimGoal `json:"goal"`
	Tasks   int     `json:"tasks"`
	Mean    float64 `json:"mean"`
	Var     float64 `json:"var"`
	StdDev  float64 `json:"stddev"`
	P50     float64 `json:"p50"`
	P90     float64 `json:"p90"`
	P99     float64 `json:"p99"`
	PopRate float64 `json:"pop_rate"` // popped rounds / all rounds
	// raw samples for callers that export histograms
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// population variance
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Tasks:   n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne plays one full task and returns the goal metric plus the
// number of popped rounds.
func simulateOne(ctx context.Context, cfg Config, gen *Generator, p SimParams, goal SimGoal) (int, int, error) {
	o := NewOrchestrator(cfg, gen, nil)
	target := p.Target
	if target < 0 {
		target = 0
	}
	sum, err := o.RunAll(ctx, TargetStrategy{Target: target}.Bind(o))
	if err != nil {
		return 0, 0, err
	}
	pops, pumps := 0, 0
	for _, r := range sum.Rounds {
		pumps += r.PumpCount
		if r.Status == StatusPopped {
			pops++
		}
	}
	switch goal {
	case GoalPops:
		return pops, pops, nil
	case GoalTotalPumps:
		return pumps, pops, nil
	default:
		return sum.AggregatePumps, pops, nil
	}
}

// RunMonteCarlo plays `tasks` whole tasks with a fixed pump target and
// returns summary stats for goal. All tasks share one seeded generator.
func RunMonteCarlo(ctx context.Context, cfg Config, p SimParams, goal SimGoal, tasks int) (Stats, error) {
	if tasks <= 0 {
		return Stats{Goal: goal}, nil
	}
	if goal == "" {
		goal = GoalBankedPumps
	}
	gen := NewGenerator(NewSeededRNG(p.Seed))
	samples := make([]int, tasks)
	pops := 0
	for i := 0; i < tasks; i++ {
		v, popped, err := simulateOne(ctx, cfg, gen, p, goal)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
		pops += popped
	}
	st := calcStats(samples)
	st.Goal = goal
	st.PopRate = float64(pops) / float64(tasks*cfg.NumTrials)
	return st, nil
}

// ExpectedBankedPumps is the closed form for one round under a pump target
// t: the round survives t pumps when the explosion point exceeds t, so
// E = t * P(point > t) with the point uniform on [MinPumps, MaxPumps).
func ExpectedBankedPumps(cfg Config, target int) float64 {
	if target <= 0 {
		return 0
	}
	width := cfg.MaxPumps - cfg.MinPumps
	if width <= 0 {
		if cfg.MinPumps > target {
			return float64(target)
		}
		return 0
	}
	survive := 0
	for point := cfg.MinPumps; point < cfg.MaxPumps; point++ {
		if point > target {
			survive++
		}
	}
	return float64(target) * float64(survive) / float64(width)
}
