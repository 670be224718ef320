package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same store
// code serves plain calls and transactional ones.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ProgressStore persists profiles, quiz history, achievements and daily
// claims in Postgres. It implements app.ProgressionStore and app.TxStore;
// the ledger's read-modify-write runs inside RunInTx so concurrent reward
// applications for the same user cannot lose updates.
type ProgressStore struct {
	pool *pgxpool.Pool
	q    querier
}

func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool, q: pool}
}

// RunInTx executes fn against a store bound to a single transaction.
func (s *ProgressStore) RunInTx(ctx context.Context, fn func(app.ProgressionStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&ProgressStore{pool: s.pool, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *ProgressStore) FetchProfile(ctx context.Context, userID string) (domain.Profile, error) {
	profile := domain.Profile{UserID: userID}
	err := s.q.QueryRow(ctx,
		`SELECT username, xp, coins, high_score, daily_streak FROM profiles WHERE user_id=$1`,
		userID).Scan(&profile.Username, &profile.XP, &profile.Coins, &profile.HighScore, &profile.DailyStreak)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

func (s *ProgressStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO profiles (user_id, username, xp, coins, high_score, daily_streak)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		   username=EXCLUDED.username, xp=EXCLUDED.xp, coins=EXCLUDED.coins,
		   high_score=EXCLUDED.high_score, daily_streak=EXCLUDED.daily_streak`,
		profile.UserID, profile.Username, profile.XP, profile.Coins, profile.HighScore, profile.DailyStreak)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *ProgressStore) InsertQuizHistory(ctx context.Context, record domain.QuizRecord) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO quiz_history (user_id, category, difficulty, score, total, xp_earned, coins_earned, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.UserID, record.Category, string(record.Difficulty), record.Score, record.Total,
		record.XPEarned, record.CoinsEarned, record.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (s *ProgressStore) FetchHistory(ctx context.Context, userID string, limit int) ([]domain.QuizRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.Query(ctx,
		`SELECT category, difficulty, score, total, xp_earned, coins_earned, completed_at
		 FROM quiz_history WHERE user_id=$1 ORDER BY completed_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer rows.Close()

	var records []domain.QuizRecord
	for rows.Next() {
		r := domain.QuizRecord{UserID: userID}
		var difficulty string
		if err := rows.Scan(&r.Category, &difficulty, &r.Score, &r.Total, &r.XPEarned, &r.CoinsEarned, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Difficulty = domain.Difficulty(difficulty)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *ProgressStore) CountHistoryRecords(ctx context.Context, userID string, filter domain.HistoryFilter) (int, error) {
	var count int
	var err error
	if filter.Difficulty != "" {
		err = s.q.QueryRow(ctx,
			`SELECT count(*) FROM quiz_history WHERE user_id=$1 AND difficulty=$2`,
			userID, string(filter.Difficulty)).Scan(&count)
	} else {
		err = s.q.QueryRow(ctx,
			`SELECT count(*) FROM quiz_history WHERE user_id=$1`, userID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return count, nil
}

func (s *ProgressStore) FetchAchievementCatalogue(ctx context.Context) ([]domain.Achievement, error) {
	rows, err := s.q.Query(ctx,
		`SELECT id, name, description, requirement, xp_reward, coin_reward
		 FROM achievements ORDER BY ordinal ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("fetch catalogue: %w", err)
	}
	defer rows.Close()

	var catalogue []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var requirement string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &requirement, &a.XPReward, &a.CoinReward); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.Requirement = domain.Requirement(requirement)
		catalogue = append(catalogue, a)
	}
	return catalogue, rows.Err()
}

func (s *ProgressStore) FetchUnlockedAchievementIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.q.Query(ctx,
		`SELECT achievement_id FROM user_achievements WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch unlocked: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlocked: %w", err)
		}
		unlocked[id] = struct{}{}
	}
	return unlocked, rows.Err()
}

func (s *ProgressStore) RecordAchievementUnlock(ctx context.Context, userID, achievementID string) error {
	// Primary key (user_id, achievement_id) makes the unlock idempotent.
	_, err := s.q.Exec(ctx,
		`INSERT INTO user_achievements (user_id, achievement_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, achievementID)
	if err != nil {
		return fmt.Errorf("record unlock: %w", err)
	}
	return nil
}

func (s *ProgressStore) FetchLastDailyClaim(ctx context.Context, userID string) (domain.DailyClaim, bool, error) {
	claim := domain.DailyClaim{UserID: userID}
	err := s.q.QueryRow(ctx,
		`SELECT day, xp, coins, claimed_at FROM daily_claims
		 WHERE user_id=$1 ORDER BY claimed_at DESC LIMIT 1`,
		userID).Scan(&claim.Day, &claim.XP, &claim.Coins, &claim.ClaimedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DailyClaim{}, false, nil
	}
	if err != nil {
		return domain.DailyClaim{}, false, fmt.Errorf("fetch last claim: %w", err)
	}
	return claim, true, nil
}

func (s *ProgressStore) InsertDailyClaim(ctx context.Context, claim domain.DailyClaim) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO daily_claims (user_id, day, xp, coins, claimed_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		claim.UserID, claim.Day, claim.XP, claim.Coins, claim.ClaimedAt)
	if err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}
