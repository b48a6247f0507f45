package memory

import (
	"context"
	"errors"
	"testing"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

func TestScoreStore_InsertAndGet(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	score := &domain.WalletScore{
		Wallet: "0xaaa",
		Score:  725,
		Breakdown: domain.ScoreBreakdown{
			Base:     500,
			Activity: 125,
			Raw:      725,
		},
	}

	if err := store.Insert(ctx, score); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByWallet(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("GetByWallet failed: %v", err)
	}
	if got.Score != 725 {
		t.Errorf("Score mismatch: got %f, want 725", got.Score)
	}
	if got.Breakdown.Activity != 125 {
		t.Errorf("Breakdown not preserved: activity %f", got.Breakdown.Activity)
	}
}

func TestScoreStore_NotFound(t *testing.T) {
	store := NewScoreStore()

	_, err := store.GetByWallet(context.Background(), "0xmissing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScoreStore_DuplicateWallet(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.WalletScore{Wallet: "0xaaa", Score: 500}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, &domain.WalletScore{Wallet: "0xaaa", Score: 600})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestScoreStore_GetAll_SortedByWallet(t *testing.T) {
	store := NewScoreStore()
	ctx := context.Background()

	scores := []*domain.WalletScore{
		{Wallet: "0xccc", Score: 300},
		{Wallet: "0xaaa", Score: 500},
		{Wallet: "0xbbb", Score: 700},
	}
	if err := store.InsertBulk(ctx, scores); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(all))
	}
	wallets := []string{all[0].Wallet, all[1].Wallet, all[2].Wallet}
	want := []string{"0xaaa", "0xbbb", "0xccc"}
	for i := range want {
		if wallets[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], wallets[i])
		}
	}
}
