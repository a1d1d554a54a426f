package utils

import (
	"math/rand"
	"sync"
	"time"
)

// RandSource is a seeded random number generator safe for concurrent use.
type RandSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewRandSource creates a new random source with the given seed.
// A zero seed is replaced with the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the effective seed.
func (r *RandSource) Seed() int64 {
	return r.seed
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// ExpSamples draws n exponential samples with the given rate, each multiplied by scale.
func (r *RandSource) ExpSamples(n int, rate, scale float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = scale * r.rng.ExpFloat64() / rate
	}
	return out
}

// defaultRand backs the package-level Float64.
var defaultRand = NewRandSource(0)

// Float64 returns a random float64 from the default source
func Float64() float64 {
	return defaultRand.Float64()
}
