package app

import "github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"

const (
	xpPerCorrect    = 10
	coinsPerCorrect = 5
)

// ComputeReward maps a final score and difficulty to the xp/coin payout.
// Deterministic and total: any unknown difficulty gets multiplier 1.
func ComputeReward(score int, difficulty domain.Difficulty) domain.RewardOutcome {
	mult := difficulty.Multiplier()
	return domain.RewardOutcome{
		XP:    score * xpPerCorrect * mult,
		Coins: score * coinsPerCorrect * mult,
	}
}
