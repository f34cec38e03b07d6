package expr

import "math/rand"

// RNG is the narrow randomness seam the evaluator needs, grounded on
// darwindeck's engine.RNG interface (engine/types.go) so tests and the
// CLI can inject a seeded source for reproducible playouts; the
// process-global source is used only when no RNG is supplied.
type RNG interface {
	Intn(n int) int
}

// defaultRNG wraps math/rand's package-level source.
type defaultRNG struct{}

func (defaultRNG) Intn(n int) int { return rand.Intn(n) }

// NewDefaultRNG returns the process-global, non-seeded RNG.
func NewDefaultRNG() RNG { return defaultRNG{} }

// seededRNG wraps a private *rand.Rand for reproducible sequences.
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns an RNG with its own private sequence.
func NewSeededRNG(seed int64) RNG {
	return seededRNG{r: rand.New(rand.NewSource(seed))}
}

func (s seededRNG) Intn(n int) int { return s.r.Intn(n) }
