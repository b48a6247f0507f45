package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/storage"
)

// ScoreStore is an in-memory implementation of storage.ScoreStore.
type ScoreStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WalletScore // keyed by wallet address
}

// NewScoreStore creates a new in-memory score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		data: make(map[string]*domain.WalletScore),
	}
}

// Compile-time interface check.
var _ storage.ScoreStore = (*ScoreStore)(nil)

// Insert adds a new score. Returns ErrDuplicateKey if wallet exists.
func (s *ScoreStore) Insert(_ context.Context, score *domain.WalletScore) error {
	if score == nil || score.Wallet == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[score.Wallet]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *score
	s.data[score.Wallet] = &cp
	return nil
}

// InsertBulk adds multiple scores atomically. Fails entire batch on any duplicate.
func (s *ScoreStore) InsertBulk(_ context.Context, scores []*domain.WalletScore) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(scores))

	for _, score := range scores {
		if score == nil || score.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[score.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[score.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[score.Wallet] = struct{}{}
	}

	for _, score := range scores {
		cp := *score
		s.data[score.Wallet] = &cp
	}

	return nil
}

// GetByWallet retrieves a score by wallet address. Returns ErrNotFound if not exists.
func (s *ScoreStore) GetByWallet(_ context.Context, wallet string) (*domain.WalletScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *score
	return &cp, nil
}

// GetAll retrieves all scores, ordered by wallet ASC for deterministic output.
func (s *ScoreStore) GetAll(_ context.Context) ([]*domain.WalletScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WalletScore, 0, len(s.data))
	for _, score := range s.data {
		cp := *score
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Wallet < result[j].Wallet
	})

	return result, nil
}
