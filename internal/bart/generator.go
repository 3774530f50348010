package bart

import "math"

// Generator samples one hidden explosion point per round.
type Generator struct {
	RNG RandomSource
}

// NewGenerator wraps rng; nil means DefaultRNG.
func NewGenerator(rng RandomSource) *Generator {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Generator{RNG: rng}
}

// Sample draws uniformly from [MinPumps, MaxPumps):
//
//	floor(u * (MaxPumps - MinPumps)) + MinPumps
//
// A zero-width range always yields MinPumps.
func (g *Generator) Sample(cfg Config) int {
	width := cfg.MaxPumps - cfg.MinPumps
	if width <= 0 {
		return cfg.MinPumps
	}
	u := unitInterval(g.RNG.Float64())
	p := int(math.Floor(u*float64(width))) + cfg.MinPumps
	// u*width can still round up to width on very wide ranges
	if p >= cfg.MaxPumps {
		p = cfg.MaxPumps - 1
	}
	return p
}
