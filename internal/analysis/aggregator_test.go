package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/memory"
)

func TestAggregator_ComputeAndStore(t *testing.T) {
	ctx := context.Background()
	scoreStore := memory.NewScoreStore()
	statsStore := memory.NewScoreStatsStore()

	err := scoreStore.InsertBulk(ctx, []*domain.WalletScore{
		{Wallet: "0xaaa", Score: 400},
		{Wallet: "0xbbb", Score: 600},
		{Wallet: "0xccc", Score: 800},
	})
	if err != nil {
		t.Fatalf("seed scores: %v", err)
	}

	fixedTime := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	agg := NewAggregator(scoreStore, statsStore).WithClock(func() time.Time { return fixedTime })

	stats, err := agg.ComputeAndStore(ctx)
	if err != nil {
		t.Fatalf("ComputeAndStore failed: %v", err)
	}
	if stats.TotalWallets != 3 {
		t.Errorf("expected 3 wallets, got %d", stats.TotalWallets)
	}
	if stats.Mean != 600 {
		t.Errorf("expected mean 600, got %f", stats.Mean)
	}
	if stats.ComputedAt != fixedTime.Unix() {
		t.Errorf("expected computed_at %d, got %d", fixedTime.Unix(), stats.ComputedAt)
	}

	stored, err := statsStore.GetLatest(ctx)
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if *stored != *stats {
		t.Errorf("stored snapshot differs: %+v vs %+v", stored, stats)
	}
}

func TestAggregator_EmptyScoreTable(t *testing.T) {
	agg := NewAggregator(memory.NewScoreStore(), memory.NewScoreStatsStore())

	_, err := agg.ComputeSnapshot(context.Background())
	if !errors.Is(err, ErrNoScores) {
		t.Errorf("expected ErrNoScores, got %v", err)
	}
}

func TestAggregator_DuplicateSnapshot(t *testing.T) {
	ctx := context.Background()
	scoreStore := memory.NewScoreStore()
	statsStore := memory.NewScoreStatsStore()

	if err := scoreStore.Insert(ctx, &domain.WalletScore{Wallet: "0xaaa", Score: 500}); err != nil {
		t.Fatalf("seed score: %v", err)
	}

	fixedTime := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	agg := NewAggregator(scoreStore, statsStore).WithClock(func() time.Time { return fixedTime })

	if _, err := agg.ComputeAndStore(ctx); err != nil {
		t.Fatalf("first ComputeAndStore failed: %v", err)
	}

	_, err := agg.ComputeAndStore(ctx)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey for same-second snapshot, got %v", err)
	}
}
