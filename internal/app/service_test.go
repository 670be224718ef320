package app

import (
	"context"
	"testing"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

type staticRepo struct {
	pool []domain.Question
}

func (r *staticRepo) QuestionsFor(_ context.Context, category string, difficulty domain.Difficulty) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range r.pool {
		if q.Category == category && q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out, nil
}

type mapSessionStore struct {
	sessions map[string]*Session
}

func newMapSessionStore() *mapSessionStore {
	return &mapSessionStore{sessions: make(map[string]*Session)}
}

func (s *mapSessionStore) Put(userID string, session *Session) { s.sessions[userID] = session }
func (s *mapSessionStore) Get(userID string) (*Session, bool) {
	session, ok := s.sessions[userID]
	return session, ok
}
func (s *mapSessionStore) Delete(userID string) { delete(s.sessions, userID) }

type fakeBoard struct {
	xp map[string]int
}

func newFakeBoard() *fakeBoard { return &fakeBoard{xp: make(map[string]int)} }

func (b *fakeBoard) SetXP(_ context.Context, userID string, xp int) error {
	b.xp[userID] = xp
	return nil
}

func (b *fakeBoard) Top(_ context.Context, n int) ([]domain.LeaderboardEntry, error) {
	var out []domain.LeaderboardEntry
	for userID, xp := range b.xp {
		out = append(out, domain.LeaderboardEntry{UserID: userID, XP: xp})
	}
	return out, nil
}

func easyPool() []domain.Question {
	return []domain.Question{
		{ID: "q1", Category: "Science", Difficulty: domain.DifficultyEasy, Text: "What is 2 + 2?", Options: []string{"3", "4"}, Correct: "4"},
		{ID: "q2", Category: "Science", Difficulty: domain.DifficultyEasy, Text: "Capital of France?", Options: []string{"Paris", "Rome"}, Correct: "Paris"},
		{ID: "q3", Category: "Science", Difficulty: domain.DifficultyEasy, Text: "Largest ocean?", Options: []string{"Atlantic", "Pacific"}, Correct: "Pacific"},
	}
}

func newTestService(pool []domain.Question) (*QuizService, *fakeStore, *fakeBoard) {
	store := newFakeStore()
	board := newFakeBoard()
	ledger := NewProgressionLedger(store, board)
	service := NewQuizServiceForTest(&staticRepo{pool: pool}, newMapSessionStore(), ledger, board, 1)
	return service, store, board
}

func TestStartSessionEmptyPool(t *testing.T) {
	service, _, _ := newTestService(nil)

	_, err := service.StartSession(context.Background(), "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy,
	})
	if err != domain.ErrNoQuestionsAvailable {
		t.Fatalf("expected ErrNoQuestionsAvailable, got %v", err)
	}
}

func TestStartSessionDrawsBoundedSubset(t *testing.T) {
	service, _, _ := newTestService(easyPool())

	session, err := service.StartSession(context.Background(), "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 2,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view := session.View(); view.Total != 2 {
		t.Fatalf("expected 2 questions, got %d", view.Total)
	}
}

func TestStartSessionRejectsInconsistentResume(t *testing.T) {
	service, _, _ := newTestService(easyPool())
	ctx := context.Background()

	cases := []struct {
		name   string
		resume domain.ResumeState
	}{
		{"index past question set", domain.ResumeState{Index: 50, Score: 0}},
		{"index at set length", domain.ResumeState{Index: 3, Score: 0}},
		{"negative index", domain.ResumeState{Index: -1, Score: 0}},
		{"negative score", domain.ResumeState{Index: 1, Score: -1}},
		{"score exceeds answered questions", domain.ResumeState{Index: 1, Score: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resume := tc.resume
			_, err := service.StartSession(ctx, "u1", domain.SessionConfig{
				Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 3,
				Resume: &resume,
			})
			if err != domain.ErrInvalidResumeState {
				t.Fatalf("expected ErrInvalidResumeState, got %v", err)
			}
		})
	}

	// Boundary-valid resume still starts, and answering cannot reach past
	// the question set.
	session, err := service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 3,
		Resume: &domain.ResumeState{Index: 2, Score: 2},
	})
	if err != nil {
		t.Fatalf("start with valid resume: %v", err)
	}
	session.Answer("whatever")
	if _, finished := session.Result(); !finished {
		t.Fatalf("expected resumed run to finish on its last question")
	}
}

func TestStartSessionInvalidResumeKeepsCurrentRun(t *testing.T) {
	service, _, _ := newTestService(easyPool())
	ctx := context.Background()

	active, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy,
		Resume: &domain.ResumeState{Index: 99, Score: 0},
	})
	if err != domain.ErrInvalidResumeState {
		t.Fatalf("expected ErrInvalidResumeState, got %v", err)
	}

	if got, ok := service.Session("u1"); !ok || got != active {
		t.Fatalf("expected active run untouched by rejected restart")
	}
	select {
	case <-active.Done():
		t.Fatalf("expected active run not abandoned")
	default:
	}
}

func TestSessionDefaultsFromServiceConfig(t *testing.T) {
	service, _, _ := newTestService(easyPool())
	service.SetSessionDefaults(2, 20, 2)
	ctx := context.Background()

	session, err := service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := session.View()
	if view.Total != 2 || view.TimeRemaining != 20 || view.Lives != 2 {
		t.Fatalf("expected configured defaults 2/20s/2 lives, got total=%d time=%d lives=%d",
			view.Total, view.TimeRemaining, view.Lives)
	}

	// Explicit request values still win over the configured defaults.
	session, err = service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 3,
	})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if view := session.View(); view.Total != 3 {
		t.Fatalf("expected explicit limit 3, got %d", view.Total)
	}
}

func TestCompleteSessionSurvivesConcurrentRestart(t *testing.T) {
	service, store, _ := newTestService(easyPool())
	ctx := context.Background()

	first, err := service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 3,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	correct := map[string]string{"q1": "4", "q2": "Paris", "q3": "Pacific"}
	for {
		view := first.View()
		if view.Phase == domain.PhaseFinished {
			break
		}
		first.Answer(correct[view.Question.ID])
	}

	// A new run swaps in before the finished one is applied.
	second, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}

	outcome, err := service.CompleteSession(ctx, first)
	if err != nil {
		t.Fatalf("complete finished run: %v", err)
	}
	if outcome.Reward.XP != 30 {
		t.Fatalf("expected the finished run's reward, got %+v", outcome.Reward)
	}
	if len(store.history) != 1 {
		t.Fatalf("expected the finished run recorded, got %d records", len(store.history))
	}
	if got, ok := service.Session("u1"); !ok || got != second {
		t.Fatalf("expected the new run still active after completing the old one")
	}
}

func TestStartSessionAbandonsPreviousRun(t *testing.T) {
	service, _, _ := newTestService(easyPool())
	ctx := context.Background()

	first, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	second, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}

	select {
	case <-first.Done():
	default:
		t.Fatalf("expected first session abandoned")
	}
	if got, ok := service.Session("u1"); !ok || got != second {
		t.Fatalf("expected second session active")
	}
}

func TestCompleteAppliesResultAndDropsSession(t *testing.T) {
	service, store, board := newTestService(easyPool())
	ctx := context.Background()

	session, err := service.StartSession(ctx, "u1", domain.SessionConfig{
		Category: "Science", Difficulty: domain.DifficultyEasy, QuestionLimit: 3,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	correct := map[string]string{"q1": "4", "q2": "Paris", "q3": "Pacific"}
	for {
		view := session.View()
		if view.Phase == domain.PhaseFinished {
			break
		}
		session.Answer(correct[view.Question.ID])
	}

	outcome, err := service.Complete(ctx, "u1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if outcome.Reward.XP == 0 {
		t.Fatalf("expected a reward, got %+v", outcome.Reward)
	}
	if _, ok := service.Session("u1"); ok {
		t.Fatalf("expected session dropped after completion")
	}
	if len(store.history) != 1 {
		t.Fatalf("expected one history record, got %d", len(store.history))
	}
	if board.xp["u1"] != outcome.Delta.NewXP {
		t.Fatalf("expected leaderboard mirror %d, got %d", outcome.Delta.NewXP, board.xp["u1"])
	}
}

func TestCompleteWithoutFinishedSession(t *testing.T) {
	service, _, _ := newTestService(easyPool())
	ctx := context.Background()

	if _, err := service.Complete(ctx, "u1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound with no session, got %v", err)
	}

	if _, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Complete(ctx, "u1"); err != domain.ErrSessionNotFinished {
		t.Fatalf("expected ErrSessionNotFinished mid-run, got %v", err)
	}
}

func TestAbandonDropsSessionWithoutReward(t *testing.T) {
	service, store, _ := newTestService(easyPool())
	ctx := context.Background()

	if _, err := service.StartSession(ctx, "u1", domain.SessionConfig{Category: "Science", Difficulty: domain.DifficultyEasy}); err != nil {
		t.Fatalf("start: %v", err)
	}
	service.Abandon("u1")

	if _, ok := service.Session("u1"); ok {
		t.Fatalf("expected session removed")
	}
	if len(store.history) != 0 {
		t.Fatalf("expected no history for abandoned run, got %d", len(store.history))
	}
}

func TestChallengeForDateIsDeterministic(t *testing.T) {
	service, _, _ := newTestService(nil)
	date := time.Date(2025, 3, 1, 17, 30, 0, 0, time.UTC)

	a := service.ChallengeForDate(date)
	b := service.ChallengeForDate(date.Add(3 * time.Hour)) // same calendar day
	if a != b {
		t.Fatalf("expected stable challenge for a date, got %+v vs %+v", a, b)
	}
	if a.Date != "2025-03-01" {
		t.Fatalf("unexpected date key: %s", a.Date)
	}

	mult := a.Difficulty.Multiplier()
	if a.BonusXP != 50*mult || a.BonusCoins != 25*mult {
		t.Fatalf("bonus must scale with multiplier, got %+v", a)
	}
}
