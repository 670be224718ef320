package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

// Leaderboard is the in-memory fallback for the global XP ranking. SetXP
// stores absolute totals (the ledger reports the post-apply XP), so repeated
// updates overwrite rather than accumulate.
type Leaderboard struct {
	mu sync.RWMutex
	xp map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{xp: make(map[string]int)}
}

func (l *Leaderboard) SetXP(_ context.Context, userID string, xp int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if xp > l.xp[userID] {
		l.xp[userID] = xp
	}
	return nil
}

func (l *Leaderboard) Top(_ context.Context, n int) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]domain.LeaderboardEntry, 0, len(l.xp))
	for userID, xp := range l.xp {
		entries = append(entries, domain.LeaderboardEntry{UserID: userID, XP: xp})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
