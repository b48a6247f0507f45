package reporting

import (
	"fmt"
	"strings"

	"wallet-credit-lab/internal/domain"
)

// RenderScoresCSV renders the wallet score table as CSV string.
// Rows keep the caller's slice order; stores return wallet-sorted slices
// so output is deterministic end to end.
func RenderScoresCSV(scores []*domain.WalletScore) string {
	var sb strings.Builder

	sb.WriteString("wallet,credit_score\n")
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%s,%.2f\n", s.Wallet, s.Score))
	}

	return sb.String()
}

// RenderScoresCSVWithBreakdown renders scores with the full component
// breakdown for explainability audits.
func RenderScoresCSVWithBreakdown(scores []*domain.WalletScore) string {
	var sb strings.Builder

	sb.WriteString("wallet,credit_score,base,activity,longevity,diversity,deposit_bonus,liquidation_penalty,raw\n")
	for _, s := range scores {
		b := s.Breakdown
		sb.WriteString(fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			s.Wallet,
			s.Score,
			b.Base,
			b.Activity,
			b.Longevity,
			b.Diversity,
			b.DepositBonus,
			b.LiquidationPenalty,
			b.Raw,
		))
	}

	return sb.String()
}
