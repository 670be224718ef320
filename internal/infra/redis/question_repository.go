package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the question pool from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error)
}

// QuestionRepository caches category/difficulty pools in Redis as JSON and
// falls back to the loader on cache miss.
// Pools are stored as: SET questions:{category}:{difficulty} {json} EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) QuestionsFor(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := r.poolKey(category, difficulty)

	if cached, err := r.client.Get(ctx, key).Result(); err == nil {
		return decodePool(cached)
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := r.client.Get(ctx, key).Result(); err == nil {
			return decodePool(cached)
		}

		questions, err := r.loader.LoadQuestions(ctx, category, difficulty)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(questions); err == nil {
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) poolKey(category string, difficulty domain.Difficulty) string {
	return "questions:" + strings.ToLower(category) + ":" + strings.ToLower(string(difficulty))
}

func decodePool(cached string) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal([]byte(cached), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
