package postgres

import (
	"context"
	"fmt"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStore implements storage.ScoreStore using PostgreSQL.
// The component breakdown is persisted alongside the final score so every
// stored score stays explainable.
type ScoreStore struct {
	pool *Pool
}

// NewScoreStore creates a new ScoreStore.
func NewScoreStore(pool *Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

const insertScoreQuery = `
	INSERT INTO wallet_scores (
		wallet, score,
		base_score, activity_score, longevity_score, diversity_score,
		deposit_bonus, liquidation_penalty, raw_score
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Insert adds a new score. Returns ErrDuplicateKey if wallet exists.
func (s *ScoreStore) Insert(ctx context.Context, score *domain.WalletScore) (err error) {
	defer observe("insert_score", time.Now(), &err)

	_, err = s.pool.Exec(ctx, insertScoreQuery, scoreArgs(score)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet score: %w", err)
	}
	return nil
}

// InsertBulk adds multiple scores atomically. Fails entire batch on any duplicate.
func (s *ScoreStore) InsertBulk(ctx context.Context, scores []*domain.WalletScore) (err error) {
	if len(scores) == 0 {
		return nil
	}
	defer observe("insert_scores_bulk", time.Now(), &err)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, score := range scores {
		if _, err := tx.Exec(ctx, insertScoreQuery, scoreArgs(score)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert wallet score in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scoreArgs(score *domain.WalletScore) []any {
	b := score.Breakdown
	return []any{
		score.Wallet,
		score.Score,
		b.Base,
		b.Activity,
		b.Longevity,
		b.Diversity,
		b.DepositBonus,
		b.LiquidationPenalty,
		b.Raw,
	}
}

const selectScoreColumns = `
	wallet, score,
	base_score, activity_score, longevity_score, diversity_score,
	deposit_bonus, liquidation_penalty, raw_score
`

// GetByWallet retrieves a score by wallet address. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByWallet(ctx context.Context, wallet string) (_ *domain.WalletScore, err error) {
	defer observe("get_score_by_wallet", time.Now(), &err)

	query := fmt.Sprintf(`SELECT %s FROM wallet_scores WHERE wallet = $1`, selectScoreColumns)

	var score domain.WalletScore
	b := &score.Breakdown
	err = s.pool.QueryRow(ctx, query, wallet).Scan(
		&score.Wallet, &score.Score,
		&b.Base, &b.Activity, &b.Longevity, &b.Diversity,
		&b.DepositBonus, &b.LiquidationPenalty, &b.Raw,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query wallet score: %w", err)
	}
	return &score, nil
}

// GetAll retrieves all scores, ordered by wallet ASC for deterministic output.
func (s *ScoreStore) GetAll(ctx context.Context) (_ []*domain.WalletScore, err error) {
	defer observe("get_all_scores", time.Now(), &err)

	query := fmt.Sprintf(`SELECT %s FROM wallet_scores ORDER BY wallet ASC`, selectScoreColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all wallet scores: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletScore
	for rows.Next() {
		var score domain.WalletScore
		b := &score.Breakdown
		if err := rows.Scan(
			&score.Wallet, &score.Score,
			&b.Base, &b.Activity, &b.Longevity, &b.Diversity,
			&b.DepositBonus, &b.LiquidationPenalty, &b.Raw,
		); err != nil {
			return nil, fmt.Errorf("scan wallet score: %w", err)
		}
		result = append(result, &score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet scores: %w", err)
	}
	return result, nil
}
