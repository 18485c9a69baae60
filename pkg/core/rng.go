package core

import "math/rand/v2"

// Rand is the randomness the simulation consumes. Tests substitute scripted
// implementations to pin growth and variant choices.
type Rand interface {
	// IntN returns a uniform integer in [0, n). n is always positive.
	IntN(n int) int
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n is not positive.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Pick returns a uniformly chosen element index for a slice of length n, or -1
// when n is zero.
func Pick(r Rand, n int) int {
	if n <= 0 {
		return -1
	}
	return r.IntN(n)
}

// Between returns a uniform integer in the closed range [lo, hi].
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
