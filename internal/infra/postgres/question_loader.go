package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads the question pool from Postgres. Options are stored
// as a JSONB array.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, text, options, correct, category, difficulty
		 FROM questions
		 WHERE lower(category)=lower($1) AND lower(difficulty)=lower($2)`,
		category, string(difficulty))
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	var rawOptions []byte
	var difficulty string
	if err := row.Scan(&q.ID, &q.Text, &rawOptions, &q.Correct, &q.Category, &difficulty); err != nil {
		return domain.Question{}, fmt.Errorf("scan question: %w", err)
	}
	q.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
	}
	return q, nil
}

// SeedQuestions upserts the given catalogue, used by the seed command.
func SeedQuestions(ctx context.Context, pool *pgxpool.Pool, questions []domain.Question) error {
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options for %s: %w", q.ID, err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO questions (id, text, options, correct, category, difficulty)
			 VALUES ($1, $2, $3::jsonb, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE SET
			   text=EXCLUDED.text, options=EXCLUDED.options, correct=EXCLUDED.correct,
			   category=EXCLUDED.category, difficulty=EXCLUDED.difficulty`,
			q.ID, q.Text, string(options), q.Correct, q.Category, string(q.Difficulty))
		if err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	return nil
}

// SeedAchievements upserts the achievement catalogue. The slice position is
// persisted as the ordinal so every store evaluates and presents unlocks in
// the same catalogue order.
func SeedAchievements(ctx context.Context, pool *pgxpool.Pool, catalogue []domain.Achievement) error {
	for i, a := range catalogue {
		_, err := pool.Exec(ctx,
			`INSERT INTO achievements (id, name, description, requirement, xp_reward, coin_reward, ordinal)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO UPDATE SET
			   name=EXCLUDED.name, description=EXCLUDED.description, requirement=EXCLUDED.requirement,
			   xp_reward=EXCLUDED.xp_reward, coin_reward=EXCLUDED.coin_reward, ordinal=EXCLUDED.ordinal`,
			a.ID, a.Name, a.Description, string(a.Requirement), a.XPReward, a.CoinReward, i)
		if err != nil {
			return fmt.Errorf("seed achievement %s: %w", a.ID, err)
		}
	}
	return nil
}
