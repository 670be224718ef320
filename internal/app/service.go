package app

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

// QuestionRepository loads the question pool for a category/difficulty
// (from cache/backing store). An empty slice is a valid answer.
type QuestionRepository interface {
	QuestionsFor(ctx context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error)
}

// SessionStore abstracts how active sessions are tracked (in-memory, Redis
// liveness, etc). Each user has at most one active session.
type SessionStore interface {
	Put(userID string, session *Session)
	Get(userID string) (*Session, bool)
	Delete(userID string)
}

// Leaderboard is the global XP ranking.
type Leaderboard interface {
	SetXP(ctx context.Context, userID string, xp int) error
	Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
}

// challengeCategories are the pools a daily challenge can draw from.
var challengeCategories = []string{
	"General Knowledge", "Science", "History", "Technology", "Sports",
	"Geography", "Entertainment", "Literature", "Math", "Art",
}

var challengeDifficulties = []domain.Difficulty{
	domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard,
}

// QuizService contains the quiz use cases: starting, driving and completing
// sessions, and the progression queries around them.
type QuizService struct {
	questions   QuestionRepository
	sessions    SessionStore
	ledger      *ProgressionLedger
	leaderboard Leaderboard
	rnd         *Randomizer

	newSession   func(userID string, questions []domain.Question, cfg domain.SessionConfig) *Session
	tickInterval time.Duration
	defaults     domain.SessionConfig
}

func NewQuizService(questions QuestionRepository, sessions SessionStore, ledger *ProgressionLedger, leaderboard Leaderboard) *QuizService {
	return &QuizService{
		questions:    questions,
		sessions:     sessions,
		ledger:       ledger,
		leaderboard:  leaderboard,
		rnd:          NewRandomizer(),
		newSession:   NewSession,
		tickInterval: time.Second,
	}
}

// SetSessionDefaults overrides the built-in session defaults for every field
// given as > 0. Explicit per-request values still win.
func (s *QuizService) SetSessionDefaults(questionLimit, timePerQuestion, startingLives int) {
	s.defaults = domain.SessionConfig{
		QuestionLimit:   questionLimit,
		TimePerQuestion: timePerQuestion,
		StartingLives:   startingLives,
	}
}

func (s *QuizService) applyDefaults(cfg *domain.SessionConfig) {
	if cfg.QuestionLimit <= 0 {
		cfg.QuestionLimit = s.defaults.QuestionLimit
	}
	if cfg.QuestionLimit <= 0 {
		cfg.QuestionLimit = defaultQuestionLimit
	}
	if cfg.TimePerQuestion <= 0 {
		cfg.TimePerQuestion = s.defaults.TimePerQuestion
	}
	if cfg.StartingLives <= 0 {
		cfg.StartingLives = s.defaults.StartingLives
	}
}

// NewQuizServiceForTest builds a service with a seeded randomizer, no
// background clock, and reveal delays that elapse immediately.
func NewQuizServiceForTest(questions QuestionRepository, sessions SessionStore, ledger *ProgressionLedger, leaderboard Leaderboard, seed int64) *QuizService {
	s := NewQuizService(questions, sessions, ledger, leaderboard)
	s.rnd = NewSeededRandomizer(seed)
	s.newSession = NewSessionSynchronous
	s.tickInterval = 0
	return s
}

// StartSession begins a quiz run for the user. The question pool is queried,
// a bounded shuffled subset is drawn and each question's options are
// shuffled. ErrNoQuestionsAvailable signals an empty pool. Resume state
// comes from clients, so it is validated here against the drawn set before
// the engine (which trusts it) ever sees it; an inconsistent pair returns
// ErrInvalidResumeState and leaves any existing run untouched. Otherwise
// any existing active session for the user is abandoned first.
func (s *QuizService) StartSession(ctx context.Context, userID string, cfg domain.SessionConfig) (*Session, error) {
	s.applyDefaults(&cfg)

	candidates, err := s.questions.QuestionsFor(ctx, cfg.Category, cfg.Difficulty)
	if err != nil {
		return nil, err
	}
	picked := s.rnd.ShuffledSubset(candidates, cfg.QuestionLimit)
	if len(picked) == 0 {
		return nil, domain.ErrNoQuestionsAvailable
	}
	if r := cfg.Resume; r != nil {
		if r.Index < 0 || r.Index >= len(picked) || r.Score < 0 || r.Score > r.Index {
			return nil, domain.ErrInvalidResumeState
		}
	}
	for i := range picked {
		picked[i] = s.rnd.ShuffleOptions(picked[i])
	}

	if prev, ok := s.sessions.Get(userID); ok {
		prev.Abandon()
		s.sessions.Delete(userID)
	}

	session := s.newSession(userID, picked, cfg)
	s.sessions.Put(userID, session)
	session.Begin()
	if s.tickInterval > 0 {
		session.StartClock(s.tickInterval)
	}
	return session, nil
}

// Session returns the user's active session, if any.
func (s *QuizService) Session(userID string) (*Session, bool) {
	return s.sessions.Get(userID)
}

// Complete applies the user's finished session through the ledger and drops
// it. The session is kept on persistence failure so the caller can retry
// without replaying the quiz.
func (s *QuizService) Complete(ctx context.Context, userID string) (domain.ApplyOutcome, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.ApplyOutcome{}, domain.ErrSessionNotFound
	}
	return s.CompleteSession(ctx, session)
}

// CompleteSession applies a specific finished session's result. Callers that
// already hold the session use this rather than re-resolving by user ID, so
// a concurrent restart cannot swap the run out from under them; the store
// entry is only removed when it still points at this session.
func (s *QuizService) CompleteSession(ctx context.Context, session *Session) (domain.ApplyOutcome, error) {
	result, finished := session.Result()
	if !finished {
		return domain.ApplyOutcome{}, domain.ErrSessionNotFinished
	}
	outcome, err := s.ledger.ApplyResult(ctx, session.UserID(), result)
	if err != nil {
		return domain.ApplyOutcome{}, err
	}
	if current, ok := s.sessions.Get(session.UserID()); ok && current == session {
		s.sessions.Delete(session.UserID())
	}
	return outcome, nil
}

// Abandon silently drops the user's active session. No reward is granted and
// no history is written.
func (s *QuizService) Abandon(userID string) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return
	}
	session.Abandon()
	s.sessions.Delete(userID)
}

// ClaimDailyReward grants today's login reward.
func (s *QuizService) ClaimDailyReward(ctx context.Context, userID string) (domain.DailyReward, error) {
	return s.ledger.ClaimDailyReward(ctx, userID)
}

// HistoryStats aggregates the user's recent quiz history.
func (s *QuizService) HistoryStats(ctx context.Context, userID string, limit int) (domain.HistoryStats, error) {
	return s.ledger.HistoryStats(ctx, userID, limit)
}

// TopPlayers returns the global XP leaderboard, best first.
func (s *QuizService) TopPlayers(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, nil
	}
	return s.leaderboard.Top(ctx, n)
}

// ChallengeForDate picks the daily challenge for a calendar date. The pick
// is a hash of the date, so every instance agrees without coordination.
func (s *QuizService) ChallengeForDate(date time.Time) domain.DailyChallenge {
	day := date.Format("2006-01-02")
	h := fnv.New32a()
	h.Write([]byte(day))
	sum := h.Sum32()

	category := challengeCategories[sum%uint32(len(challengeCategories))]
	difficulty := challengeDifficulties[(sum/7)%uint32(len(challengeDifficulties))]
	mult := difficulty.Multiplier()
	return domain.DailyChallenge{
		Date:       day,
		Category:   category,
		Difficulty: difficulty,
		BonusXP:    50 * mult,
		BonusCoins: 25 * mult,
	}
}
