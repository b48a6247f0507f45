package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStatsStore is an in-memory implementation of storage.ScoreStatsStore.
type ScoreStatsStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.ScoreStats // keyed by computed_at
}

// NewScoreStatsStore creates a new in-memory score stats store.
func NewScoreStatsStore() *ScoreStatsStore {
	return &ScoreStatsStore{
		data: make(map[int64]*domain.ScoreStats),
	}
}

// Compile-time interface check.
var _ storage.ScoreStatsStore = (*ScoreStatsStore)(nil)

// Insert adds a distribution snapshot. Returns ErrDuplicateKey if computed_at exists.
func (s *ScoreStatsStore) Insert(_ context.Context, stats *domain.ScoreStats) error {
	if stats == nil || stats.ComputedAt <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[stats.ComputedAt]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *stats
	s.data[stats.ComputedAt] = &cp
	return nil
}

// GetLatest retrieves the most recent snapshot. Returns ErrNotFound if none exists.
func (s *ScoreStatsStore) GetLatest(_ context.Context) (*domain.ScoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data) == 0 {
		return nil, storage.ErrNotFound
	}

	var latest *domain.ScoreStats
	for _, stats := range s.data {
		if latest == nil || stats.ComputedAt > latest.ComputedAt {
			latest = stats
		}
	}

	cp := *latest
	return &cp, nil
}

// GetAll retrieves all snapshots, ordered by computed_at ASC.
func (s *ScoreStatsStore) GetAll(_ context.Context) ([]*domain.ScoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ScoreStats, 0, len(s.data))
	for _, stats := range s.data {
		cp := *stats
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ComputedAt < result[j].ComputedAt
	})

	return result, nil
}
