package game

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler permutes n elements uniformly at random. It is an injection point
// so role and group assignment can be made deterministic in tests.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type sourceShuffler struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewShuffler returns a Fisher-Yates Shuffler seeded from the given value.
func NewShuffler(seed int64) Shuffler {
	return &sourceShuffler{r: rand.New(rand.NewSource(seed))}
}

// NewTimeShuffler returns a Fisher-Yates Shuffler seeded from the clock.
func NewTimeShuffler() Shuffler {
	return NewShuffler(time.Now().UnixNano())
}

func (s *sourceShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := n - 1; i > 0; i-- {
		j := s.r.Intn(i + 1)
		swap(i, j)
	}
}
