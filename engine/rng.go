package engine

import (
	"math/rand"

	"github.com/nathoo/gridsim/engine/contract"
)

// countingSource counts draws from the underlying source so that an RNG
// can be replayed to the exact same state.
type countingSource struct {
	rand.Source64
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.Source64.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.Source64.Uint64()
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts source draws, enabling save/restore.
type RNG struct {
	seed int64
	src  *countingSource
	rand *rand.Rand
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{Source64: rand.NewSource(seed).(rand.Source64)}
	return &RNG{
		seed: seed,
		src:  src,
		rand: rand.New(src),
	}
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := r.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.src.draws
}

// MaxRNGPosition bounds the position Reset will replay to.
const MaxRNGPosition = 1 << 26

// Reset rewinds r in place to a fresh RNG for seed advanced by position
// draws. Holders of r see the restored sequence.
func (r *RNG) Reset(seed int64, position int64) {
	contract.Require(position >= 0 && position <= MaxRNGPosition, contract.ErrOutOfDomain,
		"RNG.Reset", "position %d outside [0, %d]", position, int64(MaxRNGPosition))
	fresh := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		fresh.src.Int63()
	}
	*r = *fresh
}
