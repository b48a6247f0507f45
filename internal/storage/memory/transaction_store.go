package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TransactionRecord // keyed by record_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.TransactionRecord),
	}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *TransactionStore) Insert(_ context.Context, r *domain.TransactionRecord) error {
	if r == nil || r.RecordID == "" || r.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	s.data[r.RecordID] = &cp
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, records []*domain.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(records))

	for _, r := range records {
		if r == nil || r.RecordID == "" || r.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.RecordID] = struct{}{}
	}

	for _, r := range records {
		cp := *r
		s.data[r.RecordID] = &cp
	}

	return nil
}

// GetByWallet retrieves all records for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(_ context.Context, wallet string) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransactionRecord
	for _, r := range s.data {
		if r.Wallet == wallet {
			cp := *r
			result = append(result, &cp)
		}
	}

	sortRecords(result)
	return result, nil
}

// GetAll retrieves all records, ordered by timestamp ASC, record_id ASC.
func (s *TransactionStore) GetAll(_ context.Context) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TransactionRecord, 0, len(s.data))
	for _, r := range s.data {
		cp := *r
		result = append(result, &cp)
	}

	sortRecords(result)
	return result, nil
}

// Count returns the total number of stored records.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

func sortRecords(records []*domain.TransactionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp < records[j].Timestamp
		}
		return records[i].RecordID < records[j].RecordID
	})
}
