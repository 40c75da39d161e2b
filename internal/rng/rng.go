package rng

import (
	"math/rand"
	"sync"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeded is a deterministic generator
// It is safe for concurrent use, which *rand.Rand is not
type Seeded struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeeded returns a generator that always produces the same sequence for the same seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		rnd: rand.New(rand.NewSource(seed)), // nolint:gosec
	}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.Intn(n)
}
