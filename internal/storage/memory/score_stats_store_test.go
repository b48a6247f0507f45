package memory

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

func TestScoreStatsStore_InsertAndGetLatest(t *testing.T) {
	store := NewScoreStatsStore()
	ctx := context.Background()

	snapshots := []*domain.ScoreStats{
		{TotalWallets: 10, Mean: 500, ComputedAt: 1000},
		{TotalWallets: 20, Mean: 550, ComputedAt: 3000},
		{TotalWallets: 15, Mean: 525, ComputedAt: 2000},
	}
	for _, s := range snapshots {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	latest, err := store.GetLatest(ctx)
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if latest.ComputedAt != 3000 {
		t.Errorf("expected latest snapshot at 3000, got %d", latest.ComputedAt)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(all))
	}
	if all[0].ComputedAt != 1000 || all[2].ComputedAt != 3000 {
		t.Errorf("snapshots not ordered by computed_at: %d, %d, %d",
			all[0].ComputedAt, all[1].ComputedAt, all[2].ComputedAt)
	}
}

func TestScoreStatsStore_EmptyNotFound(t *testing.T) {
	store := NewScoreStatsStore()

	_, err := store.GetLatest(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScoreStatsStore_DuplicateComputedAt(t *testing.T) {
	store := NewScoreStatsStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.ScoreStats{ComputedAt: 1000}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, &domain.ScoreStats{ComputedAt: 1000})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}
