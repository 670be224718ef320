package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

// Randomizer provides the unbiased shuffling used for question selection and
// option ordering. It wraps a seeded *rand.Rand behind a mutex so one
// instance can serve concurrent sessions.
type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomizer() *Randomizer {
	return &Randomizer{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRandomizer allows deterministic shuffles in tests.
func NewSeededRandomizer(seed int64) *Randomizer {
	return &Randomizer{rnd: rand.New(rand.NewSource(seed))}
}

// ShuffledSubset returns min(limit, len(items)) questions drawn without
// repetition in uniformly random order. The input is never mutated.
// Fisher-Yates: each permutation of the copy is equally likely.
func (r *Randomizer) ShuffledSubset(items []domain.Question, limit int) []domain.Question {
	out := make([]domain.Question, len(items))
	copy(out, items)

	r.mu.Lock()
	for i := len(out) - 1; i > 0; i-- {
		j := r.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	r.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// ShuffleOptions returns a copy of q with its options permuted. Correctness
// is tracked by value, so the correct answer's identity is untouched.
func (r *Randomizer) ShuffleOptions(q domain.Question) domain.Question {
	options := make([]string, len(q.Options))
	copy(options, q.Options)

	r.mu.Lock()
	for i := len(options) - 1; i > 0; i-- {
		j := r.rnd.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	r.mu.Unlock()

	q.Options = options
	return q
}
