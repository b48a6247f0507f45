// Package pipeline wires decoding, feature extraction, scoring, analysis
// and reporting into one batch run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"wallet-credit-lab/internal/analysis"
	"wallet-credit-lab/internal/decode"
	"wallet-credit-lab/internal/domain"
	"wallet-credit-lab/internal/features"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/reporting"
	"wallet-credit-lab/internal/scoring"
	"wallet-credit-lab/internal/storage"
)

// Output file names written into the output directory.
const (
	ReportFileName       = "REPORT.md"
	ScoresCSVFileName    = "wallet_scores.csv"
	BreakdownCSVFileName = "wallet_scores_breakdown.csv"
)

// Pipeline executes the full scoring run:
// decode → features → scoring → persistence → analysis → reporting.
type Pipeline struct {
	transactionStore storage.TransactionStore // optional, transactions are not persisted when nil
	scoreStore       storage.ScoreStore       // required
	statsStore       storage.ScoreStatsStore  // optional, snapshot skipped when nil
	scorer           *scoring.Scorer
	outputDir        string
	workers          int
	now              func() time.Time // Injectable clock for deterministic output
	logger           *zap.Logger
}

// Options contains configuration for creating a Pipeline.
type Options struct {
	TransactionStore storage.TransactionStore // optional, transactions are not persisted when nil
	ScoreStore       storage.ScoreStore       // required
	StatsStore       storage.ScoreStatsStore  // optional, snapshot skipped when nil
	Scorer           *scoring.Scorer // Default: production parameters
	OutputDir        string          // Default: "docs"
	Workers          int             // Default: GOMAXPROCS
	Logger           *zap.Logger
}

// Result summarizes a pipeline run.
type Result struct {
	RecordsDecoded int
	RecordsDropped int
	WalletsScored  int
	OutputFiles    []string
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.NewDefaultScorer()
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "docs"
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		transactionStore: opts.TransactionStore,
		scoreStore:       opts.ScoreStore,
		statsStore:       opts.StatsStore,
		scorer:           scorer,
		outputDir:        outputDir,
		workers:          workers,
		now:              func() time.Time { return time.Now().UTC() },
		logger:           logger,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// RunFile decodes a raw transaction JSON file and runs the pipeline on it.
func (p *Pipeline) RunFile(ctx context.Context, inputPath string) (*Result, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, drops, err := decode.FromJSON(f)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx, records, drops)
}

// Run executes all stages over already-decoded records. Drop tallies from
// decoding flow into the report; a nil drops means nothing was dropped.
func (p *Pipeline) Run(ctx context.Context, records []domain.TransactionRecord, drops *decode.DropStats) (*Result, error) {
	if p.scoreStore == nil {
		return nil, errors.New("pipeline: score store is required")
	}

	start := time.Now()
	if drops == nil {
		drops = decode.NewDropStats()
	}

	p.logger.Info("pipeline starting",
		zap.Int("records", len(records)),
		zap.Int("dropped", drops.Total()),
		zap.Int("workers", p.workers))

	if err := p.persistTransactions(ctx, records); err != nil {
		observability.RecordPipelineRun("error")
		return nil, err
	}

	scores, err := p.scoreWallets(ctx, records)
	if err != nil {
		observability.RecordPipelineRun("error")
		return nil, err
	}
	observability.DefaultMetrics.WalletsFeatured.Add(float64(len(scores)))
	observability.DefaultMetrics.WalletsScored.Add(float64(len(scores)))

	if err := p.persistScores(ctx, scores); err != nil {
		observability.RecordPipelineRun("error")
		return nil, err
	}

	if err := p.snapshotStats(ctx); err != nil {
		observability.RecordPipelineRun("error")
		return nil, err
	}

	outputs, err := p.writeReports(ctx, drops)
	if err != nil {
		observability.RecordPipelineRun("error")
		return nil, err
	}

	elapsed := time.Since(start)
	observability.RecordPipelineRun("success")
	observability.RecordStageDuration("total", elapsed.Seconds())

	p.logger.Info("pipeline complete",
		zap.Int("wallets_scored", len(scores)),
		zap.Duration("elapsed", elapsed))

	return &Result{
		RecordsDecoded: len(records),
		RecordsDropped: drops.Total(),
		WalletsScored:  len(scores),
		OutputFiles:    outputs,
	}, nil
}

// persistTransactions stores decoded records, skipping duplicates so reruns
// over the same input are idempotent.
func (p *Pipeline) persistTransactions(ctx context.Context, records []domain.TransactionRecord) error {
	if p.transactionStore == nil {
		return nil
	}

	start := time.Now()
	stored := 0
	for i := range records {
		if err := p.transactionStore.Insert(ctx, &records[i]); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				observability.RecordDuplicate()
				continue
			}
			return fmt.Errorf("persist transactions: %w", err)
		}
		stored++
	}
	observability.RecordStored(stored)
	observability.RecordStageDuration("persist_transactions", time.Since(start).Seconds())

	p.logger.Debug("transactions persisted",
		zap.Int("stored", stored),
		zap.Int("duplicates", len(records)-stored))
	return nil
}

// scoreWallets extracts features and scores every wallet. Wallets are
// processed in parallel; results are assembled in wallet order so output
// is deterministic regardless of scheduling.
func (p *Pipeline) scoreWallets(ctx context.Context, records []domain.TransactionRecord) ([]*domain.WalletScore, error) {
	start := time.Now()

	groups := features.Group(records)

	wallets := make([]string, 0, len(groups))
	for wallet := range groups {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)

	scores := make([]*domain.WalletScore, len(wallets))

	pool := pond.NewPool(p.workers)
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)

	for i, wallet := range wallets {
		group.Submit(func() {
			f := features.Compute(wallet, groups[wallet])
			score := p.scorer.Score(f)
			scores[i] = &score
		})
	}

	// A cancelled group leaves unexecuted tasks as nil slots in scores;
	// the run must abort before those reach persistence.
	werr := group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if werr != nil {
		return nil, fmt.Errorf("score wallets: %w", werr)
	}

	observability.RecordStageDuration("score", time.Since(start).Seconds())
	return scores, nil
}

func (p *Pipeline) persistScores(ctx context.Context, scores []*domain.WalletScore) error {
	if len(scores) == 0 {
		return nil
	}

	start := time.Now()
	if err := p.scoreStore.InsertBulk(ctx, scores); err != nil {
		return fmt.Errorf("persist scores: %w", err)
	}
	observability.RecordStageDuration("persist_scores", time.Since(start).Seconds())
	return nil
}

// snapshotStats persists a distribution snapshot when a stats store is wired.
// An empty score table is not an error: there is just nothing to snapshot.
func (p *Pipeline) snapshotStats(ctx context.Context) error {
	if p.statsStore == nil {
		return nil
	}

	agg := analysis.NewAggregator(p.scoreStore, p.statsStore).WithClock(p.now)
	if _, err := agg.ComputeAndStore(ctx); err != nil {
		if errors.Is(err, analysis.ErrNoScores) {
			return nil
		}
		return fmt.Errorf("snapshot stats: %w", err)
	}
	return nil
}

// writeReports renders the markdown report and score CSVs into outputDir.
func (p *Pipeline) writeReports(ctx context.Context, drops *decode.DropStats) ([]string, error) {
	start := time.Now()

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	gen := reporting.NewGenerator(p.scoreStore, p.transactionStore).
		WithClock(p.now).
		WithDataQuality(drops.Total(), drops.Warnings())

	report, err := gen.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	scores, err := p.scoreStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	outputs := []string{
		filepath.Join(p.outputDir, ReportFileName),
		filepath.Join(p.outputDir, ScoresCSVFileName),
		filepath.Join(p.outputDir, BreakdownCSVFileName),
	}

	files := map[string]string{
		outputs[0]: reporting.RenderMarkdown(report),
		outputs[1]: reporting.RenderScoresCSV(scores),
		outputs[2]: reporting.RenderScoresCSVWithBreakdown(scores),
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	observability.RecordStageDuration("report", time.Since(start).Seconds())
	return outputs, nil
}
