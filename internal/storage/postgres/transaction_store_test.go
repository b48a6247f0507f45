package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/idhash"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/postgres"
)

func makeRecord(wallet string, action domain.ActionKind, asset string, amount float64, ts int64) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		RecordID:  idhash.ComputeRecordID(wallet, ts, action.String(), asset, amount),
		Wallet:    wallet,
		Action:    action,
		Asset:     asset,
		Amount:    amount,
		Timestamp: ts,
	}
}

func TestTransactionStore_InsertAndGetByWallet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTransactionStore(pool)

	rec := makeRecord("0xaaa", domain.ActionDeposit, "USDC", 2000, 1629178166)
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetByWallet(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, rec.RecordID, got[0].RecordID)
	require.Equal(t, domain.ActionDeposit, got[0].Action)
	require.Equal(t, 2000.0, got[0].Amount)
}

func TestTransactionStore_DuplicateRecordID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTransactionStore(pool)

	rec := makeRecord("0xaaa", domain.ActionDeposit, "USDC", 2000, 1629178166)
	require.NoError(t, store.Insert(ctx, rec))
	require.ErrorIs(t, store.Insert(ctx, rec), storage.ErrDuplicateKey)
}

func TestTransactionStore_InsertBulkAtomic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTransactionStore(pool)

	dup := makeRecord("0xaaa", domain.ActionDeposit, "USDC", 2000, 1629178166)
	batch := []*domain.TransactionRecord{
		makeRecord("0xaaa", domain.ActionBorrow, "DAI", 100, 1629178200),
		dup,
		dup, // intra-batch duplicate
	}

	require.ErrorIs(t, store.InsertBulk(ctx, batch), storage.ErrDuplicateKey)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count, "failed batch must not leave partial rows")
}

func TestTransactionStore_GetAllOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewTransactionStore(pool)

	batch := []*domain.TransactionRecord{
		makeRecord("0xbbb", domain.ActionRepay, "DAI", 50, 1629178300),
		makeRecord("0xaaa", domain.ActionDeposit, "USDC", 2000, 1629178100),
		makeRecord("0xaaa", domain.ActionBorrow, "DAI", 100, 1629178200),
	}
	require.NoError(t, store.InsertBulk(ctx, batch))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		require.LessOrEqual(t, all[i-1].Timestamp, all[i].Timestamp)
	}
}
