package ingestion

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"wallet-credit-lab/internal/decode"
	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/storage"
)

// Runner consumes a transaction source, decodes raw records and persists
// them in batches.
type Runner struct {
	source        TransactionSource
	store         storage.TransactionStore
	batchSize     int
	flushInterval time.Duration
	logger        *zap.Logger

	dropStats *decode.DropStats
	stats     RunnerStats
}

// RunnerStats reports what a run did.
type RunnerStats struct {
	RecordsReceived int
	RecordsDecoded  int
	RecordsStored   int
	RecordsDropped  int
	Duplicates      int
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source        TransactionSource
	Store         storage.TransactionStore
	BatchSize     int           // Default: 500
	FlushInterval time.Duration // Default: 5s - force flush buffered records periodically
	Logger        *zap.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	flushInterval := opts.FlushInterval
	if flushInterval == 0 {
		flushInterval = 5 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		source:        opts.Source,
		store:         opts.Store,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        logger,
		dropStats:     decode.NewDropStats(),
	}
}

// Run consumes the source until it is exhausted or the context is cancelled.
// Remaining buffered records are flushed before returning.
func (r *Runner) Run(ctx context.Context) error {
	rawCh, err := r.source.Subscribe(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("ingestion started",
		zap.Int("batch_size", r.batchSize),
		zap.Duration("flush_interval", r.flushInterval))

	flushTicker := time.NewTicker(r.flushInterval)
	defer flushTicker.Stop()

	batch := make([]*domain.TransactionRecord, 0, r.batchSize)

	for {
		select {
		case <-ctx.Done():
			if err := r.flush(context.Background(), batch); err != nil {
				r.logger.Error("final flush failed", zap.Error(err))
			}
			r.logger.Info("ingestion stopping", zap.Int("records_stored", r.stats.RecordsStored))
			return ctx.Err()

		case raw, ok := <-rawCh:
			if !ok {
				// Source exhausted: flush what remains and finish.
				if err := r.flush(ctx, batch); err != nil {
					return err
				}
				r.logger.Info("ingestion complete",
					zap.Int("records_received", r.stats.RecordsReceived),
					zap.Int("records_stored", r.stats.RecordsStored),
					zap.Int("records_dropped", r.stats.RecordsDropped),
					zap.Int("duplicates", r.stats.Duplicates))
				return nil
			}

			r.stats.RecordsReceived++

			rec, reason, ok := decode.Record(raw)
			if !ok {
				r.dropStats.ByReason[reason]++
				r.stats.RecordsDropped++
				observability.RecordDropped(string(reason), 1)
				continue
			}

			r.stats.RecordsDecoded++
			observability.RecordDecoded(1)

			recCopy := rec
			batch = append(batch, &recCopy)
			if len(batch) >= r.batchSize {
				if err := r.flush(ctx, batch); err != nil {
					return err
				}
				batch = batch[:0]
			}

		case <-flushTicker.C:
			if err := r.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
}

// DropStats returns the decode drop tally for reporting.
func (r *Runner) DropStats() *decode.DropStats {
	return r.dropStats
}

// Stats returns counters for the completed run.
func (r *Runner) Stats() RunnerStats {
	return r.stats
}

// flush writes a batch to the store. Bulk insert is tried first; a batch
// rejected for duplicates falls back to per-record inserts so replayed
// feeds stay idempotent.
func (r *Runner) flush(ctx context.Context, batch []*domain.TransactionRecord) error {
	if len(batch) == 0 {
		return nil
	}

	err := r.store.InsertBulk(ctx, batch)
	if err == nil {
		r.stats.RecordsStored += len(batch)
		observability.RecordStored(len(batch))
		r.logger.Debug("batch stored", zap.Int("records", len(batch)))
		return nil
	}

	if !errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordIngestionError("store")
		return err
	}

	for _, rec := range batch {
		if err := r.store.Insert(ctx, rec); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				r.stats.Duplicates++
				observability.RecordDuplicate()
				continue
			}
			observability.RecordIngestionError("store")
			return err
		}
		r.stats.RecordsStored++
		observability.RecordStored(1)
	}

	return nil
}
