package clickhouse

import (
	"context"
	"fmt"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStatsStore implements storage.ScoreStatsStore using ClickHouse.
type ScoreStatsStore struct {
	conn *Conn
}

// NewScoreStatsStore creates a new ScoreStatsStore.
func NewScoreStatsStore(conn *Conn) *ScoreStatsStore {
	return &ScoreStatsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreStatsStore = (*ScoreStatsStore)(nil)

// Insert adds a distribution snapshot. Returns ErrDuplicateKey if computed_at exists.
func (s *ScoreStatsStore) Insert(ctx context.Context, stats *domain.ScoreStats) (err error) {
	defer observe("insert_distribution", time.Now(), &err)

	// ReplacingMergeTree would replace silently; enforce append-only semantics.
	exists, err := s.exists(ctx, stats.ComputedAt)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO score_distribution (
			computed_at, total_wallets,
			mean, median, min, max, stddev,
			p10, p25, p75, p90
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		stats.ComputedAt, int32(stats.TotalWallets),
		stats.Mean, stats.Median, stats.Min, stats.Max, stats.Stddev,
		stats.P10, stats.P25, stats.P75, stats.P90,
	)
	if err != nil {
		return fmt.Errorf("insert score distribution: %w", err)
	}
	return nil
}

func (s *ScoreStatsStore) exists(ctx context.Context, computedAt int64) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM score_distribution WHERE computed_at = ?`, computedAt,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const selectStatsColumns = `
	computed_at, total_wallets,
	mean, median, min, max, stddev,
	p10, p25, p75, p90
`

// GetLatest retrieves the most recent snapshot. Returns ErrNotFound if none exists.
func (s *ScoreStatsStore) GetLatest(ctx context.Context) (_ *domain.ScoreStats, err error) {
	defer observe("get_latest_distribution", time.Now(), &err)

	query := fmt.Sprintf(`
		SELECT %s FROM score_distribution
		ORDER BY computed_at DESC
		LIMIT 1
	`, selectStatsColumns)

	stats, err := s.scanOne(s.conn.QueryRow(ctx, query))
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetAll retrieves all snapshots, ordered by computed_at ASC.
func (s *ScoreStatsStore) GetAll(ctx context.Context) (_ []*domain.ScoreStats, err error) {
	defer observe("get_all_distributions", time.Now(), &err)

	query := fmt.Sprintf(`
		SELECT %s FROM score_distribution
		ORDER BY computed_at ASC
	`, selectStatsColumns)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query score distributions: %w", err)
	}
	defer rows.Close()

	var result []*domain.ScoreStats
	for rows.Next() {
		var stats domain.ScoreStats
		var totalWallets int32
		if err := rows.Scan(
			&stats.ComputedAt, &totalWallets,
			&stats.Mean, &stats.Median, &stats.Min, &stats.Max, &stats.Stddev,
			&stats.P10, &stats.P25, &stats.P75, &stats.P90,
		); err != nil {
			return nil, fmt.Errorf("scan score distribution: %w", err)
		}
		stats.TotalWallets = int(totalWallets)
		result = append(result, &stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score distributions: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *ScoreStatsStore) scanOne(row rowScanner) (*domain.ScoreStats, error) {
	var stats domain.ScoreStats
	var totalWallets int32
	err := row.Scan(
		&stats.ComputedAt, &totalWallets,
		&stats.Mean, &stats.Median, &stats.Min, &stats.Max, &stats.Stddev,
		&stats.P10, &stats.P25, &stats.P75, &stats.P90,
	)
	if err != nil {
		// QueryRow scan failure here means no snapshot yet
		return nil, storage.ErrNotFound
	}
	stats.TotalWallets = int(totalWallets)
	return &stats, nil
}
