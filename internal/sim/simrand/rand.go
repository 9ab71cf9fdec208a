// Package simrand is the simulation's single deterministic random stream.
// It is seeded once at startup and shared by every system that needs
// randomness, so a fixed seed and a fixed draw order reproduce a run
// exactly. The mutex only serializes draws; it does not order them across
// worker goroutines.
package simrand

import (
	"math/rand"
	"sync"
)

type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func New(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Float64 draws a uniform value in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	v := r.src.Float64()
	r.mu.Unlock()
	return v
}

// Intn draws a uniform integer in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	v := r.src.Intn(n)
	r.mu.Unlock()
	return v
}
