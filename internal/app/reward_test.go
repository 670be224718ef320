package app

import (
	"testing"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

func TestComputeReward(t *testing.T) {
	cases := []struct {
		name       string
		score      int
		difficulty domain.Difficulty
		xp         int
		coins      int
	}{
		{"easy", 3, domain.DifficultyEasy, 30, 15},
		{"medium", 5, domain.DifficultyMedium, 100, 50},
		{"hard", 7, domain.DifficultyHard, 210, 105},
		{"zero score", 0, domain.DifficultyHard, 0, 0},
		{"unknown difficulty falls back to 1x", 4, domain.Difficulty("Brutal"), 40, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeReward(tc.score, tc.difficulty)
			if got.XP != tc.xp || got.Coins != tc.coins {
				t.Fatalf("got xp=%d coins=%d, want xp=%d coins=%d", got.XP, got.Coins, tc.xp, tc.coins)
			}
		})
	}
}
