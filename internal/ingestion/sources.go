// Package ingestion pulls raw lending-protocol transactions from external
// sources and persists them as decoded records.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"wallet-credit-lab/internal/decode"
)

// TransactionSource provides raw transactions from an external source.
type TransactionSource interface {
	// Subscribe returns a channel of raw transactions. The channel is closed
	// when the source is exhausted or the context is cancelled. Records may
	// arrive in any order; downstream consumers enforce deterministic ordering.
	Subscribe(ctx context.Context) (<-chan decode.RawTransaction, error)
}

// FileSource streams raw transactions from a JSON array file.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from the given JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

var _ TransactionSource = (*FileSource)(nil)

// Subscribe reads the whole file up front and streams its entries.
// A malformed file is a fatal input error, returned before any record flows.
func (s *FileSource) Subscribe(ctx context.Context) (<-chan decode.RawTransaction, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read transaction file: %w", err)
	}

	var raws []decode.RawTransaction
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse transaction file %s: %w", s.path, err)
	}

	ch := make(chan decode.RawTransaction)
	go func() {
		defer close(ch)
		for _, raw := range raws {
			select {
			case ch <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
