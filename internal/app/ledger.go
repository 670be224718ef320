package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

// ProgressionStore is the persistence collaborator for profiles, history and
// achievements. Any backing store satisfying these operations works.
type ProgressionStore interface {
	FetchProfile(ctx context.Context, userID string) (domain.Profile, error)
	SaveProfile(ctx context.Context, profile domain.Profile) error
	InsertQuizHistory(ctx context.Context, record domain.QuizRecord) error
	FetchHistory(ctx context.Context, userID string, limit int) ([]domain.QuizRecord, error)
	CountHistoryRecords(ctx context.Context, userID string, filter domain.HistoryFilter) (int, error)
	FetchAchievementCatalogue(ctx context.Context) ([]domain.Achievement, error)
	FetchUnlockedAchievementIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	RecordAchievementUnlock(ctx context.Context, userID, achievementID string) error
	FetchLastDailyClaim(ctx context.Context, userID string) (domain.DailyClaim, bool, error)
	InsertDailyClaim(ctx context.Context, claim domain.DailyClaim) error
}

// TxStore is implemented by stores that can run a read-modify-write under a
// per-user transaction. The ledger uses it when available so two devices
// applying rewards concurrently cannot lose updates.
type TxStore interface {
	RunInTx(ctx context.Context, fn func(ProgressionStore) error) error
}

// LeaderboardUpdater mirrors post-apply xp totals into the ranking store. Best-effort:
// a failure here never fails the reward application.
type LeaderboardUpdater interface {
	SetXP(ctx context.Context, userID string, xp int) error
}

// DailyRewardTable is the 7-day login reward cycle; day 7 wraps back to 1.
var DailyRewardTable = []domain.DailyReward{
	{Day: 1, XP: 20, Coins: 10},
	{Day: 2, XP: 30, Coins: 15},
	{Day: 3, XP: 40, Coins: 20},
	{Day: 4, XP: 50, Coins: 25},
	{Day: 5, XP: 75, Coins: 35},
	{Day: 6, XP: 100, Coins: 50},
	{Day: 7, XP: 200, Coins: 100},
}

// DefaultAchievements is the static catalogue, evaluated in this order.
func DefaultAchievements() []domain.Achievement {
	return []domain.Achievement{
		{ID: "first-steps", Name: "First Steps", Description: "Complete your first quiz", Requirement: domain.RequirementComplete1Quiz, XPReward: 10, CoinReward: 5},
		{ID: "quiz-veteran", Name: "Quiz Veteran", Description: "Complete 10 quizzes", Requirement: domain.RequirementComplete10Quiz, XPReward: 50, CoinReward: 25},
		{ID: "perfectionist", Name: "Perfectionist", Description: "Finish a quiz with a perfect score", Requirement: domain.RequirementPerfectScore, XPReward: 100, CoinReward: 50},
		{ID: "dedicated", Name: "Dedicated", Description: "Keep a 7-day daily streak", Requirement: domain.RequirementStreak7, XPReward: 150, CoinReward: 75},
		{ID: "scholar", Name: "Scholar", Description: "Earn 1000 XP", Requirement: domain.RequirementEarn1000XP, XPReward: 200, CoinReward: 100},
		{ID: "collector", Name: "Collector", Description: "Earn 500 coins", Requirement: domain.RequirementEarn500Coins, XPReward: 100, CoinReward: 50},
		{ID: "hard-boiled", Name: "Hard Boiled", Description: "Complete 5 hard quizzes", Requirement: domain.RequirementComplete5Hard, XPReward: 250, CoinReward: 125},
	}
}

// ProgressionLedger converts finished sessions into persisted progression:
// profile deltas, a history record, and achievement unlocks.
type ProgressionLedger struct {
	store       ProgressionStore
	leaderboard LeaderboardUpdater
	now         func() time.Time
}

func NewProgressionLedger(store ProgressionStore, leaderboard LeaderboardUpdater) *ProgressionLedger {
	return &ProgressionLedger{store: store, leaderboard: leaderboard, now: time.Now}
}

// NewProgressionLedgerWithClock is test-only for deterministic timestamps.
func NewProgressionLedgerWithClock(store ProgressionStore, leaderboard LeaderboardUpdater, now func() time.Time) *ProgressionLedger {
	return &ProgressionLedger{store: store, leaderboard: leaderboard, now: now}
}

// ApplyResult persists the reward for one finished session and evaluates
// achievement unlocks. It must be called exactly once per result; the ledger
// does not deduplicate replays (a caller obligation), though unlock rows are
// written at most once per achievement regardless.
//
// Achievement bonuses accumulate into a single final profile write instead of
// one write per unlock, so a mid-loop failure never leaves half-added rewards.
// Persistence errors are retryable: the caller keeps the in-memory result and
// may re-invoke.
func (l *ProgressionLedger) ApplyResult(ctx context.Context, userID string, result domain.SessionResult) (domain.ApplyOutcome, error) {
	var outcome domain.ApplyOutcome
	apply := func(store ProgressionStore) error {
		var err error
		outcome, err = l.applyResult(ctx, store, userID, result)
		return err
	}

	var err error
	if tx, ok := l.store.(TxStore); ok {
		err = tx.RunInTx(ctx, apply)
	} else {
		err = apply(l.store)
	}
	if err != nil {
		return domain.ApplyOutcome{}, err
	}

	if l.leaderboard != nil {
		if lbErr := l.leaderboard.SetXP(ctx, userID, outcome.Delta.NewXP); lbErr != nil {
			log.Printf("leaderboard update failed for %s: %v", userID, lbErr)
		}
	}
	return outcome, nil
}

func (l *ProgressionLedger) applyResult(ctx context.Context, store ProgressionStore, userID string, result domain.SessionResult) (domain.ApplyOutcome, error) {
	reward := ComputeReward(result.Score, result.Difficulty)

	profile, err := store.FetchProfile(ctx, userID)
	if err != nil && err != domain.ErrProfileNotFound {
		return domain.ApplyOutcome{}, fmt.Errorf("fetch profile: %w", err)
	}
	profile.UserID = userID

	newXP := profile.XP + reward.XP
	newCoins := profile.Coins + reward.Coins
	newHighScore := profile.HighScore
	if result.Score > newHighScore {
		newHighScore = result.Score
	}

	if err := store.InsertQuizHistory(ctx, domain.QuizRecord{
		UserID:      userID,
		Category:    result.Category,
		Difficulty:  result.Difficulty,
		Score:       result.Score,
		Total:       result.Total,
		XPEarned:    reward.XP,
		CoinsEarned: reward.Coins,
		CompletedAt: l.now(),
	}); err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("insert history: %w", err)
	}

	unlocked, bonusXP, bonusCoins, err := l.evaluateAchievements(ctx, store, userID, achievementStats{
		perfect:     result.Perfect(),
		dailyStreak: profile.DailyStreak,
		newXP:       newXP,
		newCoins:    newCoins,
	})
	if err != nil {
		// Profile not yet written, but the history record is: recoverable
		// inconsistency outside a transactional store. Surfaced, not hidden.
		return domain.ApplyOutcome{}, fmt.Errorf("evaluate achievements (history already recorded): %w", err)
	}

	profile.XP = newXP + bonusXP
	profile.Coins = newCoins + bonusCoins
	profile.HighScore = newHighScore
	if err := store.SaveProfile(ctx, profile); err != nil {
		return domain.ApplyOutcome{}, fmt.Errorf("save profile (history already recorded): %w", err)
	}

	return domain.ApplyOutcome{
		Reward: reward,
		Delta: domain.ProfileDelta{
			NewXP:        profile.XP,
			NewCoins:     profile.Coins,
			NewHighScore: profile.HighScore,
		},
		Unlocked: unlocked,
	}, nil
}

type achievementStats struct {
	perfect     bool
	dailyStreak int
	newXP       int
	newCoins    int
}

// evaluateAchievements walks the catalogue once, in order, recording unlocks
// for every predicate that newly holds. History counts include the record of
// the run being applied.
func (l *ProgressionLedger) evaluateAchievements(ctx context.Context, store ProgressionStore, userID string, stats achievementStats) ([]domain.Achievement, int, int, error) {
	catalogue, err := store.FetchAchievementCatalogue(ctx)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fetch catalogue: %w", err)
	}
	have, err := store.FetchUnlockedAchievementIDs(ctx, userID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fetch unlocked: %w", err)
	}

	totalQuizzes, err := store.CountHistoryRecords(ctx, userID, domain.HistoryFilter{})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count history: %w", err)
	}
	hardQuizzes, err := store.CountHistoryRecords(ctx, userID, domain.HistoryFilter{Difficulty: domain.DifficultyHard})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count hard history: %w", err)
	}

	var unlocked []domain.Achievement
	var bonusXP, bonusCoins int
	for _, a := range catalogue {
		if _, ok := have[a.ID]; ok {
			continue
		}
		if !satisfied(a.Requirement, stats, totalQuizzes, hardQuizzes) {
			continue
		}
		if err := store.RecordAchievementUnlock(ctx, userID, a.ID); err != nil {
			return nil, 0, 0, fmt.Errorf("record unlock %s: %w", a.ID, err)
		}
		unlocked = append(unlocked, a)
		bonusXP += a.XPReward
		bonusCoins += a.CoinReward
	}
	return unlocked, bonusXP, bonusCoins, nil
}

func satisfied(req domain.Requirement, stats achievementStats, totalQuizzes, hardQuizzes int) bool {
	switch req {
	case domain.RequirementComplete1Quiz:
		return totalQuizzes >= 1
	case domain.RequirementComplete10Quiz:
		return totalQuizzes >= 10
	case domain.RequirementPerfectScore:
		return stats.perfect
	case domain.RequirementStreak7:
		return stats.dailyStreak >= 7
	case domain.RequirementEarn1000XP:
		return stats.newXP >= 1000
	case domain.RequirementEarn500Coins:
		return stats.newCoins >= 500
	case domain.RequirementComplete5Hard:
		return hardQuizzes >= 5
	default:
		return false
	}
}

// ClaimDailyReward grants today's login reward. Claiming twice on one
// calendar day returns ErrRewardAlreadyClaimed; a gap of more than one day
// resets the cycle to day 1, and day 7 wraps back to day 1.
func (l *ProgressionLedger) ClaimDailyReward(ctx context.Context, userID string) (domain.DailyReward, error) {
	var reward domain.DailyReward
	claim := func(store ProgressionStore) error {
		var err error
		reward, err = l.claimDaily(ctx, store, userID)
		return err
	}
	if tx, ok := l.store.(TxStore); ok {
		if err := tx.RunInTx(ctx, claim); err != nil {
			return domain.DailyReward{}, err
		}
		return reward, nil
	}
	if err := claim(l.store); err != nil {
		return domain.DailyReward{}, err
	}
	return reward, nil
}

func (l *ProgressionLedger) claimDaily(ctx context.Context, store ProgressionStore, userID string) (domain.DailyReward, error) {
	now := l.now()
	today := now.Truncate(24 * time.Hour)

	last, haveLast, err := store.FetchLastDailyClaim(ctx, userID)
	if err != nil {
		return domain.DailyReward{}, fmt.Errorf("fetch last claim: %w", err)
	}

	day := 1
	consecutive := false
	if haveLast {
		lastDay := last.ClaimedAt.Truncate(24 * time.Hour)
		gap := int(today.Sub(lastDay).Hours() / 24)
		switch {
		case gap == 0:
			return domain.DailyReward{}, domain.ErrRewardAlreadyClaimed
		case gap == 1:
			day = last.Day + 1
			if day > len(DailyRewardTable) {
				day = 1
			}
			consecutive = true
		}
	}

	reward := DailyRewardTable[day-1]

	if err := store.InsertDailyClaim(ctx, domain.DailyClaim{
		UserID:    userID,
		Day:       day,
		XP:        reward.XP,
		Coins:     reward.Coins,
		ClaimedAt: now,
	}); err != nil {
		return domain.DailyReward{}, fmt.Errorf("insert claim: %w", err)
	}

	profile, err := store.FetchProfile(ctx, userID)
	if err != nil && err != domain.ErrProfileNotFound {
		return domain.DailyReward{}, fmt.Errorf("fetch profile: %w", err)
	}
	profile.UserID = userID
	profile.XP += reward.XP
	profile.Coins += reward.Coins
	if consecutive {
		profile.DailyStreak++
	} else {
		profile.DailyStreak = 1
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return domain.DailyReward{}, fmt.Errorf("save profile (claim already recorded): %w", err)
	}
	return reward, nil
}

// HistoryStats aggregates a user's recent history the way the stats screen
// presents it.
func (l *ProgressionLedger) HistoryStats(ctx context.Context, userID string, limit int) (domain.HistoryStats, error) {
	records, err := l.store.FetchHistory(ctx, userID, limit)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("fetch history: %w", err)
	}
	return ComputeHistoryStats(records), nil
}

// ComputeHistoryStats reduces history records to aggregate totals, the best
// (most-played) category, and the per-difficulty distribution.
func ComputeHistoryStats(records []domain.QuizRecord) domain.HistoryStats {
	stats := domain.HistoryStats{
		BestCategory: "None",
		ByDifficulty: map[domain.Difficulty]int{
			domain.DifficultyEasy:   0,
			domain.DifficultyMedium: 0,
			domain.DifficultyHard:   0,
		},
	}
	if len(records) == 0 {
		return stats
	}

	byCategory := make(map[string]int)
	for _, r := range records {
		stats.TotalQuizzes++
		stats.TotalScore += r.Score
		stats.TotalXP += r.XPEarned
		stats.TotalCoins += r.CoinsEarned
		byCategory[r.Category]++
		if _, ok := stats.ByDifficulty[r.Difficulty]; ok {
			stats.ByDifficulty[r.Difficulty]++
		}
	}
	stats.AvgScore = float64(stats.TotalScore) / float64(stats.TotalQuizzes)

	best := 0
	for category, count := range byCategory {
		if count > best || (count == best && category < stats.BestCategory) {
			best = count
			stats.BestCategory = category
		}
	}
	return stats
}
