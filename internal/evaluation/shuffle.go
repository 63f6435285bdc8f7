package evaluation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// Shuffler produces random permutations from an injectable source.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler builds a shuffler over src. A nil src is seeded from the clock.
func NewShuffler(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Shuffler{rnd: rand.New(src)}
}

var defaultShuffler = NewShuffler(nil)

// ShuffledOrder returns a uniformly random permutation of [0, n) using the package shuffler.
func ShuffledOrder(n int) []int {
	return defaultShuffler.ShuffledOrder(n)
}

// ShuffledOrder runs Fisher-Yates from the last index down to 1.
func (s *Shuffler) ShuffledOrder(n int) []int {
	if n <= 0 {
		return []int{}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// PresentationOrder shuffles display order for every ranking and matching component of q,
// keyed by component id. Matching components shuffle the right-hand column.
func PresentationOrder(q *models.Question, s *Shuffler) map[int][]int {
	if s == nil {
		s = defaultShuffler
	}
	orders := make(map[int][]int)
	if q == nil {
		return orders
	}
	for _, c := range q.Components {
		switch c.Type {
		case models.ComponentRanking:
			orders[c.ID] = s.ShuffledOrder(len(c.Items))
		case models.ComponentMatchingPairs:
			orders[c.ID] = s.ShuffledOrder(len(c.Pairs))
		}
	}
	return orders
}
