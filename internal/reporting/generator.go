package reporting

import (
	"context"
	"time"

	"wallet-credit-lab/internal/analysis"
	"wallet-credit-lab/internal/storage"
)

// Generator produces analysis reports from stored scores.
type Generator struct {
	scoreStore       storage.ScoreStore
	transactionStore storage.TransactionStore // optional; nil when transactions are not persisted
	now              func() time.Time         // Injectable clock for deterministic output

	droppedRecords int
	warnings       []string
}

// NewGenerator creates a new report generator.
func NewGenerator(scoreStore storage.ScoreStore, transactionStore storage.TransactionStore) *Generator {
	return &Generator{
		scoreStore:       scoreStore,
		transactionStore: transactionStore,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithDataQuality attaches decode-stage drop tallies to the report.
func (g *Generator) WithDataQuality(dropped int, warnings []string) *Generator {
	g.droppedRecords = dropped
	g.warnings = append(g.warnings, warnings...)
	return g
}

// Generate produces a complete analysis report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	scores, err := g.scoreStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totalTransactions := 0
	if g.transactionStore != nil {
		totalTransactions, err = g.transactionStore.Count(ctx)
		if err != nil {
			return nil, err
		}
	}

	return &Report{
		GeneratedAt:       g.now(),
		TotalWallets:      len(scores),
		TotalTransactions: totalTransactions,
		DroppedRecords:    g.droppedRecords,
		Warnings:          g.warnings,
		Stats:             analysis.ComputeStats(scores),
		RangeCounts:       analysis.ComputeRangeCounts(scores),
	}, nil
}
