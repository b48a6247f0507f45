// Package features derives per-wallet feature vectors from decoded
// transaction records. Extraction is a pure mapping: no I/O, no shared
// state, and the result does not depend on input record order.
package features

import (
	"wallet-credit-lab/internal/domain"
)

const secondsPerDay = 86400

// Group partitions records by wallet address.
// Grouping is order-independent; per-wallet slices keep input order but no
// downstream computation depends on it.
func Group(records []domain.TransactionRecord) map[string][]domain.TransactionRecord {
	groups := make(map[string][]domain.TransactionRecord)
	for _, rec := range records {
		groups[rec.Wallet] = append(groups[rec.Wallet], rec)
	}
	return groups
}

// Compute builds the feature vector for one wallet from its record group.
// The group must be non-empty: wallets only exist because at least one
// record referenced them.
func Compute(wallet string, group []domain.TransactionRecord) domain.WalletFeatures {
	assets := make(map[string]struct{})
	days := make(map[int64]struct{})
	actionCounts := make(map[domain.ActionKind]int)

	for _, rec := range group {
		assets[rec.Asset] = struct{}{}
		// UTC day bucket; all records share one epoch convention.
		days[rec.Timestamp/secondsPerDay] = struct{}{}
		actionCounts[rec.Action]++
	}

	total := len(group)

	// Count-based ratio; defined as 0 for an empty group so the formula
	// never divides by zero.
	depositRatio := 0.0
	if total > 0 {
		depositRatio = float64(actionCounts[domain.ActionDeposit]) / float64(total)
	}

	return domain.WalletFeatures{
		Wallet:           wallet,
		TransactionCount: total,
		UniqueAssets:     len(assets),
		ActiveDays:       len(days),
		ActionCounts:     actionCounts,
		DepositRatio:     depositRatio,
		LiquidationCount: actionCounts[domain.ActionLiquidationCall],
	}
}

// Extract produces exactly one feature vector per distinct wallet present
// in records. An empty input yields an empty table, not an error.
func Extract(records []domain.TransactionRecord) map[string]domain.WalletFeatures {
	groups := Group(records)
	result := make(map[string]domain.WalletFeatures, len(groups))
	for wallet, group := range groups {
		result[wallet] = Compute(wallet, group)
	}
	return result
}
