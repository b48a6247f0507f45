package reporting

import (
	"time"

	"wallet-credit-lab/internal/domain"
)

// Report represents the score analysis report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Data Summary
	TotalWallets      int
	TotalTransactions int

	// Data Quality
	DroppedRecords int
	Warnings       []string // one line per drop reason, stable order

	// Distribution
	Stats       domain.ScoreStats
	RangeCounts []domain.RangeCount
}
