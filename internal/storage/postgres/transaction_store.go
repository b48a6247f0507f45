package postgres

import (
	"context"
	"fmt"
	"time"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const insertTransactionQuery = `
	INSERT INTO transactions (
		record_id, wallet, action, asset, amount, ts
	) VALUES ($1, $2, $3, $4, $5, $6)
`

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *TransactionStore) Insert(ctx context.Context, r *domain.TransactionRecord) (err error) {
	defer observe("insert_transaction", time.Now(), &err)

	_, err = s.pool.Exec(ctx, insertTransactionQuery,
		r.RecordID,
		r.Wallet,
		r.Action.String(),
		r.Asset,
		r.Amount,
		r.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(ctx context.Context, records []*domain.TransactionRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	defer observe("insert_transactions_bulk", time.Now(), &err)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, insertTransactionQuery,
			r.RecordID,
			r.Wallet,
			r.Action.String(),
			r.Asset,
			r.Amount,
			r.Timestamp,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert transaction in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectTransactionColumns = `record_id, wallet, action, asset, amount, ts`

// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(ctx context.Context, wallet string) (_ []*domain.TransactionRecord, err error) {
	defer observe("get_transactions_by_wallet", time.Now(), &err)

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE wallet = $1
		ORDER BY ts ASC, record_id ASC
	`, selectTransactionColumns)

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("query transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetAll retrieves all records, ordered by timestamp ASC, record_id ASC.
func (s *TransactionStore) GetAll(ctx context.Context) (_ []*domain.TransactionRecord, err error) {
	defer observe("get_all_transactions", time.Now(), &err)

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		ORDER BY ts ASC, record_id ASC
	`, selectTransactionColumns)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the total number of stored records.
func (s *TransactionStore) Count(ctx context.Context) (count int, err error) {
	defer observe("count_transactions", time.Now(), &err)

	err = s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTransactions(rows pgxRows) ([]*domain.TransactionRecord, error) {
	var result []*domain.TransactionRecord
	for rows.Next() {
		var r domain.TransactionRecord
		var action string
		if err := rows.Scan(&r.RecordID, &r.Wallet, &action, &r.Asset, &r.Amount, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		r.Action = domain.ActionKind(action)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
