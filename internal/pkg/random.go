package pkg

import (
	"math/rand"
	"sync"
	"time"
)

// LockedRand is a math/rand source safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// SampleUntil draws until accept is satisfied.
func SampleUntil[T any](draw func() T, accept func(T) bool) T {
	for {
		v := draw()
		if accept(v) {
			return v
		}
	}
}
