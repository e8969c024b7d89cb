package services

import (
	"math/rand"
	"sync"
)

// lockedSource serializes access to a rand source so a single seeded
// generator can serve concurrent HTTP requests. Same approach as the
// global source in math/rand.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	n := s.src.Int63()
	s.mu.Unlock()
	return n
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	n := s.src.Uint64()
	s.mu.Unlock()
	return n
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	s.src.Seed(seed)
	s.mu.Unlock()
}

// newLockedRand builds a seeded generator safe for concurrent use. The
// sequence matches rand.New(rand.NewSource(seed)) so fixed-seed tests stay
// deterministic.
func newLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}
