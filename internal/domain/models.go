package domain

import "time"

// Difficulty of a question or session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Multiplier is the difficulty-dependent scalar applied when computing
// rewards. Unknown difficulties fall back to 1.
func (d Difficulty) Multiplier() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 1
	}
}

// Question models an MCQ question. The correct answer is tracked by value,
// not position, so options may be freely shuffled.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Options    []string   `json:"options"`
	Correct    string     `json:"correct"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuestionView is what clients see mid-session: a question with the correct
// answer withheld.
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// View strips the answer from a question.
func (q Question) View() QuestionView {
	return QuestionView{ID: q.ID, Text: q.Text, Options: q.Options}
}

// PowerUp is a single-use-per-session modifier.
type PowerUp string

const (
	PowerUpHint      PowerUp = "hint"
	PowerUpExtraTime PowerUp = "time"
	PowerUpSkip      PowerUp = "skip"
)

// Phase of a quiz session.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseActive       Phase = "active"
	PhaseRevealing    Phase = "revealing"
	PhaseFinished     Phase = "finished"
)

// ResumeState restores a previously abandoned run. Values are trusted as-is:
// the caller must supply an index/score pair consistent with the question
// set. This is a documented precondition, not a validated input.
type ResumeState struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// SessionConfig describes one quiz run.
type SessionConfig struct {
	Category        string
	Difficulty      Difficulty
	QuestionLimit   int
	TimePerQuestion int // seconds
	StartingLives   int
	Resume          *ResumeState
}

// SessionView is a snapshot of session state for presentation.
type SessionView struct {
	Phase         Phase        `json:"phase"`
	Index         int          `json:"index"`
	Total         int          `json:"total"`
	Question      QuestionView `json:"question"`
	TimeRemaining int          `json:"timeRemaining"`
	Lives         int          `json:"lives"`
	Streak        int          `json:"streak"`
	Score         int          `json:"score"`
	Selected      string       `json:"selected,omitempty"`
	Correct       string       `json:"correct,omitempty"` // set only while revealing
	PowerUpsUsed  []PowerUp    `json:"powerUpsUsed,omitempty"`
}

// SessionResult is the terminal outcome of a session, produced exactly once.
type SessionResult struct {
	Score      int        `json:"score"`
	Total      int        `json:"total"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// Perfect reports whether every question was answered correctly.
func (r SessionResult) Perfect() bool {
	return r.Total > 0 && r.Score == r.Total
}

// RewardOutcome is the xp/coin payout for a finished session.
type RewardOutcome struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// Profile is the persisted per-user progression record.
type Profile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	XP          int    `json:"xp"`
	Coins       int    `json:"coins"`
	HighScore   int    `json:"highScore"`
	DailyStreak int    `json:"dailyStreak"`
}

// ProfileDelta is the final profile state after a reward application,
// achievement bonuses included.
type ProfileDelta struct {
	NewXP        int `json:"newXp"`
	NewCoins     int `json:"newCoins"`
	NewHighScore int `json:"newHighScore"`
}

// QuizRecord is an immutable history entry, appended exactly once per
// finished session.
type QuizRecord struct {
	UserID      string     `json:"userId"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	XPEarned    int        `json:"xpEarned"`
	CoinsEarned int        `json:"coinsEarned"`
	CompletedAt time.Time  `json:"completedAt"`
}

// HistoryFilter narrows history counts; the zero value matches everything.
type HistoryFilter struct {
	Difficulty Difficulty
}

// Requirement identifies an achievement-unlock predicate.
type Requirement string

const (
	RequirementComplete1Quiz  Requirement = "complete_1_quiz"
	RequirementComplete10Quiz Requirement = "complete_10_quizzes"
	RequirementPerfectScore   Requirement = "perfect_score"
	RequirementStreak7        Requirement = "streak_7"
	RequirementEarn1000XP     Requirement = "earn_1000_xp"
	RequirementEarn500Coins   Requirement = "earn_500_coins"
	RequirementComplete5Hard  Requirement = "complete_5_hard"
)

// Achievement is a statically catalogued unlock with its own reward.
type Achievement struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Requirement Requirement `json:"requirement"`
	XPReward    int         `json:"xpReward"`
	CoinReward  int         `json:"coinReward"`
}

// ApplyOutcome is everything the client needs to render the result screen.
type ApplyOutcome struct {
	Reward   RewardOutcome `json:"reward"`
	Delta    ProfileDelta  `json:"delta"`
	Unlocked []Achievement `json:"unlocked"`
}

// DailyReward is one day of the 7-day login reward cycle.
type DailyReward struct {
	Day   int `json:"day"`
	XP    int `json:"xp"`
	Coins int `json:"coins"`
}

// DailyClaim records a claimed daily reward.
type DailyClaim struct {
	UserID    string    `json:"userId"`
	Day       int       `json:"day"`
	XP        int       `json:"xp"`
	Coins     int       `json:"coins"`
	ClaimedAt time.Time `json:"claimedAt"`
}

// LeaderboardEntry is one row of the global XP leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	XP     int    `json:"xp"`
	Rank   int    `json:"rank"`
}

// DailyChallenge is the bonus quiz assigned to a calendar date.
type DailyChallenge struct {
	Date       string     `json:"date"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	BonusXP    int        `json:"bonusXp"`
	BonusCoins int        `json:"bonusCoins"`
}

// HistoryStats aggregates a user's quiz history for the stats screen.
type HistoryStats struct {
	TotalQuizzes int                `json:"totalQuizzes"`
	TotalScore   int                `json:"totalScore"`
	TotalXP      int                `json:"totalXp"`
	TotalCoins   int                `json:"totalCoins"`
	AvgScore     float64            `json:"avgScore"`
	BestCategory string             `json:"bestCategory"`
	ByDifficulty map[Difficulty]int `json:"byDifficulty"`
}
