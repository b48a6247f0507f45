// Package scoring maps wallet feature vectors to bounded credit scores.
// The model is a fixed additive rule set with capped sub-scores: every
// component is named and retrievable, so any score is explainable without
// re-running the pipeline.
package scoring

import (
	"wallet-credit-lab/internal/domain"
)

// Params is the whitelist of rule parameters. All weights are fixed
// constants, not fitted values.
type Params struct {
	Base               float64
	ActivityPerTx      float64
	ActivityMax        float64
	LongevityPerDay    float64
	LongevityMax       float64
	DiversityPerAsset  float64
	DiversityMax       float64
	DepositBonus       float64
	DepositRatioFloor  float64 // bonus applies strictly above this ratio
	LiquidationPenalty float64 // per liquidation call
}

// DefaultParams returns the production rule parameters.
// Longevity saturates at 50 active days (2 points per day against a
// 100-point cap).
func DefaultParams() Params {
	return Params{
		Base:               500,
		ActivityPerTx:      0.5,
		ActivityMax:        200,
		LongevityPerDay:    2,
		LongevityMax:       100,
		DiversityPerAsset:  20,
		DiversityMax:       100,
		DepositBonus:       50,
		DepositRatioFloor:  0.5,
		LiquidationPenalty: 100,
	}
}

// Scorer computes credit scores from wallet features.
type Scorer struct {
	params Params
}

// NewScorer creates a scorer with the given parameters.
func NewScorer(params Params) *Scorer {
	return &Scorer{params: params}
}

// NewDefaultScorer creates a scorer with production parameters.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultParams())
}

// Score computes the credit score for one wallet. Pure and total: the same
// features always produce the same score, and no well-formed feature vector
// can fault (every sub-term is bounded and the sum is clamped).
func (s *Scorer) Score(f domain.WalletFeatures) domain.WalletScore {
	p := s.params

	breakdown := domain.ScoreBreakdown{
		Base:               p.Base,
		Activity:           capAt(p.ActivityPerTx*float64(f.TransactionCount), p.ActivityMax),
		Longevity:          capAt(p.LongevityPerDay*float64(f.ActiveDays), p.LongevityMax),
		Diversity:          capAt(p.DiversityPerAsset*float64(f.UniqueAssets), p.DiversityMax),
		LiquidationPenalty: p.LiquidationPenalty * float64(f.LiquidationCount),
	}
	if f.DepositRatio > p.DepositRatioFloor {
		breakdown.DepositBonus = p.DepositBonus
	}

	breakdown.Raw = breakdown.Base +
		breakdown.Activity +
		breakdown.Longevity +
		breakdown.Diversity +
		breakdown.DepositBonus -
		breakdown.LiquidationPenalty

	return domain.WalletScore{
		Wallet:    f.Wallet,
		Score:     clamp(breakdown.Raw, domain.MinScore, domain.MaxScore),
		Breakdown: breakdown,
	}
}

// ScoreAll computes scores for a full feature table.
func (s *Scorer) ScoreAll(table map[string]domain.WalletFeatures) map[string]domain.WalletScore {
	scores := make(map[string]domain.WalletScore, len(table))
	for wallet, f := range table {
		scores[wallet] = s.Score(f)
	}
	return scores
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
