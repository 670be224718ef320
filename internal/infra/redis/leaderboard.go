package redis

import (
	"context"
	"fmt"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:xp"

// Leaderboard ranks users by total XP in a Redis sorted set. SetXP stores
// the post-apply absolute total, so replays cannot double-count.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) SetXP(ctx context.Context, userID string, xp int) error {
	if err := l.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err(); err != nil {
		return fmt.Errorf("leaderboard zadd: %w", err)
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 {
		n = 50
	}
	members, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard zrevrange: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		userID, _ := m.Member.(string)
		entries = append(entries, domain.LeaderboardEntry{
			UserID: userID,
			XP:     int(m.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}
