package domain

// WalletFeatures holds the per-wallet feature vector derived from the full
// set of transaction records for one wallet. It is built once per pipeline
// run and keeps no reference back to the raw records.
//
// Invariants for any wallet with at least one record:
//   - TransactionCount >= 1
//   - UniqueAssets >= 1, ActiveDays >= 1
//   - sum(ActionCounts) == TransactionCount
//   - DepositRatio in [0, 1]
type WalletFeatures struct {
	Wallet           string
	TransactionCount int
	UniqueAssets     int
	// ActiveDays counts distinct UTC day buckets (timestamp / 86400)
	// on which the wallet transacted.
	ActiveDays   int
	ActionCounts map[ActionKind]int
	// DepositRatio is deposit record count over total record count.
	// Defined as 0 when the wallet has no records.
	DepositRatio     float64
	LiquidationCount int
}
