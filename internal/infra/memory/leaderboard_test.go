package memory

import (
	"context"
	"testing"
)

func TestLeaderboardOrdersByXPThenUserID(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()

	_ = board.SetXP(ctx, "carol", 120)
	_ = board.SetXP(ctx, "alice", 450)
	_ = board.SetXP(ctx, "bob", 450)

	top, err := board.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].UserID != "alice" || top[0].Rank != 1 {
		t.Fatalf("unexpected first entry: %+v", top[0])
	}
	if top[1].UserID != "bob" || top[1].Rank != 2 {
		t.Fatalf("unexpected second entry: %+v", top[1])
	}
	if top[2].UserID != "carol" {
		t.Fatalf("unexpected third entry: %+v", top[2])
	}
}

func TestLeaderboardTruncatesToN(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()

	_ = board.SetXP(ctx, "a", 10)
	_ = board.SetXP(ctx, "b", 20)
	_ = board.SetXP(ctx, "c", 30)

	top, err := board.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "c" {
		t.Fatalf("expected top 2 starting with c, got %+v", top)
	}
}
