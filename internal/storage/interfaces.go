package storage

import (
	"context"

	"wallet-credit-lab/internal/domain"
)

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.TransactionRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.TransactionRecord) error

	// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.TransactionRecord, error)

	// GetAll retrieves all records, ordered by timestamp ASC, record_id ASC.
	GetAll(ctx context.Context) ([]*domain.TransactionRecord, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)
}

// ScoreStore provides access to wallet_scores storage.
type ScoreStore interface {
	// Insert adds a new score. Returns ErrDuplicateKey if wallet exists.
	Insert(ctx context.Context, s *domain.WalletScore) error

	// InsertBulk adds multiple scores atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, scores []*domain.WalletScore) error

	// GetByWallet retrieves a score by wallet address. Returns ErrNotFound if not exists.
	GetByWallet(ctx context.Context, wallet string) (*domain.WalletScore, error)

	// GetAll retrieves all scores, ordered by wallet ASC for deterministic output.
	GetAll(ctx context.Context) ([]*domain.WalletScore, error)
}

// ScoreStatsStore provides access to score_distribution storage.
type ScoreStatsStore interface {
	// Insert adds a distribution snapshot. Returns ErrDuplicateKey if computed_at exists.
	Insert(ctx context.Context, s *domain.ScoreStats) error

	// GetLatest retrieves the most recent snapshot. Returns ErrNotFound if none exists.
	GetLatest(ctx context.Context) (*domain.ScoreStats, error)

	// GetAll retrieves all snapshots, ordered by computed_at ASC.
	GetAll(ctx context.Context) ([]*domain.ScoreStats, error)
}
