package bart

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// RandomSource yields explosion-point draws. Values must lie in [0, 1);
// Generator clamps anything outside that range.
type RandomSource interface {
	Float64() float64
}

// cryptoSource feeds math/rand/v2 from the OS entropy pool so live
// participants cannot predict where a balloon bursts.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// DefaultRNG is unpredictable and safe for concurrent use.
func DefaultRNG() RandomSource { return rand.New(cryptoSource{}) }

// seededRNG replays the same draws for the same seed. Not safe for
// concurrent use.
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG is used for reproducible runs, simulations and tests.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return unitInterval(s.r.Float64()) }

// unitInterval pins u into [0, 1).
func unitInterval(u float64) float64 {
	switch {
	case math.IsNaN(u) || u < 0:
		return 0
	case u >= 1:
		return math.Nextafter(1, 0)
	}
	return u
}
