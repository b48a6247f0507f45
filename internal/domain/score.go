package domain

// Score boundary constants.
const (
	MinScore = 0
	MaxScore = 1000
)

// ScoreBreakdown holds the named sub-scores that compose a credit score.
// Kept alongside the final score so every score is explainable without
// re-running the model.
type ScoreBreakdown struct {
	Base               float64 // starting score
	Activity           float64 // capped transaction-count component
	Longevity          float64 // capped active-days component
	Diversity          float64 // capped unique-assets component
	DepositBonus       float64 // conservative-behavior bonus
	LiquidationPenalty float64 // 100 per liquidation call
	Raw                float64 // sum before clamping
}

// WalletScore is the scoring output for one wallet.
// Corresponds to wallet_scores table in PostgreSQL.
type WalletScore struct {
	Wallet    string
	Score     float64 // clamped to [MinScore, MaxScore]
	Breakdown ScoreBreakdown
}
