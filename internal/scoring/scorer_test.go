package scoring

import (
	"testing"

	"wallet-credit-lab/internal/domain"
)

func TestScore_ScenarioA_AllCapsReached(t *testing.T) {
	// 400 txs, 60 active days, 6 assets, deposit ratio 0.6, 0 liquidations
	f := domain.WalletFeatures{
		Wallet:           "0xaaa",
		TransactionCount: 400,
		ActiveDays:       60,
		UniqueAssets:     6,
		DepositRatio:     0.6,
		LiquidationCount: 0,
	}

	ws := NewDefaultScorer().Score(f)

	if ws.Breakdown.Activity != 200 {
		t.Errorf("expected activity capped at 200, got %f", ws.Breakdown.Activity)
	}
	if ws.Breakdown.Longevity != 100 {
		t.Errorf("expected longevity capped at 100, got %f", ws.Breakdown.Longevity)
	}
	if ws.Breakdown.Diversity != 100 {
		t.Errorf("expected diversity capped at 100, got %f", ws.Breakdown.Diversity)
	}
	if ws.Breakdown.DepositBonus != 50 {
		t.Errorf("expected deposit bonus 50, got %f", ws.Breakdown.DepositBonus)
	}
	if ws.Breakdown.LiquidationPenalty != 0 {
		t.Errorf("expected no penalty, got %f", ws.Breakdown.LiquidationPenalty)
	}
	if ws.Score != 950 {
		t.Errorf("expected score 950, got %f", ws.Score)
	}
}

func TestScore_ScenarioB_Unclamped(t *testing.T) {
	// 12 txs, 3 active days, 2 assets, deposit ratio 0.25, 2 liquidations
	f := domain.WalletFeatures{
		Wallet:           "0xbbb",
		TransactionCount: 12,
		ActiveDays:       3,
		UniqueAssets:     2,
		DepositRatio:     0.25,
		LiquidationCount: 2,
	}

	ws := NewDefaultScorer().Score(f)

	if ws.Breakdown.Activity != 6 {
		t.Errorf("expected activity 6, got %f", ws.Breakdown.Activity)
	}
	if ws.Breakdown.Longevity != 6 {
		t.Errorf("expected longevity 6, got %f", ws.Breakdown.Longevity)
	}
	if ws.Breakdown.Diversity != 40 {
		t.Errorf("expected diversity 40, got %f", ws.Breakdown.Diversity)
	}
	if ws.Breakdown.DepositBonus != 0 {
		t.Errorf("expected no deposit bonus, got %f", ws.Breakdown.DepositBonus)
	}
	if ws.Breakdown.LiquidationPenalty != 200 {
		t.Errorf("expected penalty 200, got %f", ws.Breakdown.LiquidationPenalty)
	}
	if ws.Breakdown.Raw != 352 {
		t.Errorf("expected raw 352, got %f", ws.Breakdown.Raw)
	}
	if ws.Score != 352 {
		t.Errorf("expected score 352, got %f", ws.Score)
	}
}

func TestScore_ScenarioC_ClampsToZero(t *testing.T) {
	// Deep negative raw: 10 liquidations, minimal qualifying sub-scores
	f := domain.WalletFeatures{
		Wallet:           "0xccc",
		TransactionCount: 1,
		ActiveDays:       1,
		UniqueAssets:     1,
		DepositRatio:     0,
		LiquidationCount: 10,
	}

	ws := NewDefaultScorer().Score(f)

	if ws.Breakdown.Raw >= 0 {
		t.Errorf("expected negative raw, got %f", ws.Breakdown.Raw)
	}
	if ws.Score != 0 {
		t.Errorf("expected score clamped to 0, got %f", ws.Score)
	}
}

func TestScore_ClampInvariantExtremeInputs(t *testing.T) {
	extremes := []domain.WalletFeatures{
		{TransactionCount: 10_000_000, ActiveDays: 100_000, UniqueAssets: 10_000, DepositRatio: 1},
		{TransactionCount: 1, ActiveDays: 1, UniqueAssets: 1, LiquidationCount: 50},
		{TransactionCount: 0, ActiveDays: 0, UniqueAssets: 0},
	}

	scorer := NewDefaultScorer()
	for i, f := range extremes {
		ws := scorer.Score(f)
		if ws.Score < domain.MinScore || ws.Score > domain.MaxScore {
			t.Errorf("extreme input %d: score %f outside [0, 1000]", i, ws.Score)
		}
	}
}

func TestScore_LongevityCapAtFiftyDays(t *testing.T) {
	scorer := NewDefaultScorer()

	at50 := scorer.Score(domain.WalletFeatures{ActiveDays: 50})
	if at50.Breakdown.Longevity != 100 {
		t.Errorf("expected longevity 100 at 50 days, got %f", at50.Breakdown.Longevity)
	}

	at49 := scorer.Score(domain.WalletFeatures{ActiveDays: 49})
	if at49.Breakdown.Longevity != 98 {
		t.Errorf("expected longevity 98 at 49 days, got %f", at49.Breakdown.Longevity)
	}

	at150 := scorer.Score(domain.WalletFeatures{ActiveDays: 150})
	if at150.Breakdown.Longevity != 100 {
		t.Errorf("expected longevity still 100 at 150 days, got %f", at150.Breakdown.Longevity)
	}
}

func TestScore_ActivityMonotonicUpToCap(t *testing.T) {
	scorer := NewDefaultScorer()

	prev := -1.0
	for txCount := 0; txCount <= 500; txCount += 25 {
		ws := scorer.Score(domain.WalletFeatures{TransactionCount: txCount})
		if ws.Breakdown.Activity < prev {
			t.Fatalf("activity decreased at tx count %d: %f < %f", txCount, ws.Breakdown.Activity, prev)
		}
		prev = ws.Breakdown.Activity
	}
}

func TestScore_LiquidationCostsExactlyOneHundredPreClamp(t *testing.T) {
	scorer := NewDefaultScorer()
	base := domain.WalletFeatures{
		TransactionCount: 100,
		ActiveDays:       10,
		UniqueAssets:     3,
		DepositRatio:     0.6,
	}

	for liqs := 0; liqs < 5; liqs++ {
		f := base
		f.LiquidationCount = liqs
		raw := scorer.Score(f).Breakdown.Raw

		f.LiquidationCount = liqs + 1
		rawNext := scorer.Score(f).Breakdown.Raw

		if raw-rawNext != 100 {
			t.Errorf("liquidation %d->%d: expected raw delta 100, got %f", liqs, liqs+1, raw-rawNext)
		}
	}
}

func TestScore_DepositBonusStrictlyAboveHalf(t *testing.T) {
	scorer := NewDefaultScorer()

	exactlyHalf := scorer.Score(domain.WalletFeatures{DepositRatio: 0.5})
	if exactlyHalf.Breakdown.DepositBonus != 0 {
		t.Errorf("expected no bonus at ratio 0.5, got %f", exactlyHalf.Breakdown.DepositBonus)
	}

	aboveHalf := scorer.Score(domain.WalletFeatures{DepositRatio: 0.51})
	if aboveHalf.Breakdown.DepositBonus != 50 {
		t.Errorf("expected bonus 50 above 0.5, got %f", aboveHalf.Breakdown.DepositBonus)
	}
}

func TestScore_Deterministic(t *testing.T) {
	f := domain.WalletFeatures{
		Wallet:           "0xddd",
		TransactionCount: 37,
		ActiveDays:       12,
		UniqueAssets:     4,
		DepositRatio:     0.7,
		LiquidationCount: 1,
	}

	scorer := NewDefaultScorer()
	first := scorer.Score(f)
	for i := 0; i < 100; i++ {
		if got := scorer.Score(f); got != first {
			t.Fatalf("run %d produced a different score: %+v", i, got)
		}
	}
}

func TestScoreAll_OneEntryPerWallet(t *testing.T) {
	table := map[string]domain.WalletFeatures{
		"0xaaa": {Wallet: "0xaaa", TransactionCount: 10, ActiveDays: 2, UniqueAssets: 1},
		"0xbbb": {Wallet: "0xbbb", TransactionCount: 5, ActiveDays: 1, UniqueAssets: 2},
	}

	scores := NewDefaultScorer().ScoreAll(table)

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	for wallet, ws := range scores {
		if ws.Wallet != wallet {
			t.Errorf("score keyed by %s carries wallet %s", wallet, ws.Wallet)
		}
	}
}
