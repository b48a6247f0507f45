package analysis

import (
	"context"
	"errors"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ErrNoScores is returned when no scores are available for aggregation.
var ErrNoScores = errors.New("no scores available for aggregation")

// Aggregator computes distribution snapshots from stored wallet scores.
type Aggregator struct {
	scoreStore storage.ScoreStore
	statsStore storage.ScoreStatsStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewAggregator creates a new score aggregator.
func NewAggregator(scoreStore storage.ScoreStore, statsStore storage.ScoreStatsStore) *Aggregator {
	return &Aggregator{
		scoreStore: scoreStore,
		statsStore: statsStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// ComputeSnapshot loads all scores and reduces them to a stats snapshot.
// Returns ErrNoScores when the score table is empty.
func (a *Aggregator) ComputeSnapshot(ctx context.Context) (*domain.ScoreStats, error) {
	scores, err := a.scoreStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrNoScores
	}

	stats := ComputeStats(scores)
	stats.ComputedAt = a.now().Unix()
	return &stats, nil
}

// ComputeAndStore computes and persists a snapshot.
// Returns storage.ErrDuplicateKey if a snapshot for the same second exists.
func (a *Aggregator) ComputeAndStore(ctx context.Context) (*domain.ScoreStats, error) {
	stats, err := a.ComputeSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.statsStore.Insert(ctx, stats); err != nil {
		return nil, err
	}

	return stats, nil
}
