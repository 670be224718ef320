package memory

import (
	"testing"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := app.NewSessionSynchronous("u1", []domain.Question{
		{ID: "q1", Text: "What is 2 + 2?", Options: []string{"3", "4"}, Correct: "4"},
	}, domain.SessionConfig{Category: "Math", Difficulty: domain.DifficultyEasy})

	store.Put("u1", session)
	got, ok := store.Get("u1")
	if !ok || got != session {
		t.Fatalf("expected stored session back")
	}

	store.Delete("u1")
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreIsolatesUsers(t *testing.T) {
	store := NewSessionStore()

	a := app.NewSessionSynchronous("a", []domain.Question{{ID: "q1", Correct: "x"}}, domain.SessionConfig{})
	b := app.NewSessionSynchronous("b", []domain.Question{{ID: "q1", Correct: "x"}}, domain.SessionConfig{})
	store.Put("a", a)
	store.Put("b", b)

	store.Delete("a")
	if _, ok := store.Get("a"); ok {
		t.Fatalf("expected a removed")
	}
	if got, ok := store.Get("b"); !ok || got != b {
		t.Fatalf("expected b untouched")
	}
}
