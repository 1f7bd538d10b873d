package board

import (
	"lukechampine.com/frand"
)

// Randomizer is the source of randomness used to spawn tiles. Both
// *frand.RNG and *math/rand.Rand satisfy it.
type Randomizer interface {
	Intn(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) Intn(n int) int {
	return frand.Intn(n)
}

// DefaultRandomizer draws from frand's global, cryptographically seeded RNG.
var DefaultRandomizer Randomizer = defaultRandomizer{}

// NewSeededRandomizer returns a deterministic RNG. Two boards driven by
// randomizers built from the same seed spawn identical tiles for identical
// move sequences.
func NewSeededRandomizer(seed [32]byte) *frand.RNG {
	return frand.NewCustom(seed[:], 1024, 12)
}
