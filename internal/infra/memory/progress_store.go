package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressionStore,
// used by the no-database serve mode and the ledger tests. It is not
// transactional; the Postgres store is the one that provides RunInTx.
type ProgressStore struct {
	mu        sync.RWMutex
	profiles  map[string]domain.Profile
	history   []domain.QuizRecord
	catalogue []domain.Achievement
	unlocked  map[string]map[string]struct{}
	claims    map[string][]domain.DailyClaim
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		profiles:  make(map[string]domain.Profile),
		catalogue: app.DefaultAchievements(),
		unlocked:  make(map[string]map[string]struct{}),
		claims:    make(map[string][]domain.DailyClaim),
	}
}

func (s *ProgressStore) FetchProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (s *ProgressStore) SaveProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *ProgressStore) InsertQuizHistory(_ context.Context, record domain.QuizRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, record)
	return nil
}

func (s *ProgressStore) FetchHistory(_ context.Context, userID string, limit int) ([]domain.QuizRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QuizRecord
	for _, r := range s.history {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ProgressStore) CountHistoryRecords(_ context.Context, userID string, filter domain.HistoryFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.history {
		if r.UserID != userID {
			continue
		}
		if filter.Difficulty != "" && r.Difficulty != filter.Difficulty {
			continue
		}
		count++
	}
	return count, nil
}

func (s *ProgressStore) FetchAchievementCatalogue(_ context.Context) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Achievement, len(s.catalogue))
	copy(out, s.catalogue)
	return out, nil
}

func (s *ProgressStore) FetchUnlockedAchievementIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.unlocked[userID]))
	for id := range s.unlocked[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *ProgressStore) RecordAchievementUnlock(_ context.Context, userID, achievementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unlocked[userID] == nil {
		s.unlocked[userID] = make(map[string]struct{})
	}
	// At most one unlock row per (user, achievement).
	s.unlocked[userID][achievementID] = struct{}{}
	return nil
}

func (s *ProgressStore) FetchLastDailyClaim(_ context.Context, userID string) (domain.DailyClaim, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claims := s.claims[userID]
	if len(claims) == 0 {
		return domain.DailyClaim{}, false, nil
	}
	return claims[len(claims)-1], true, nil
}

func (s *ProgressStore) InsertDailyClaim(_ context.Context, claim domain.DailyClaim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.UserID] = append(s.claims[claim.UserID], claim)
	return nil
}
