package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the analysis report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Credit Score Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Wallets Analyzed | %d |\n", r.TotalWallets))
	sb.WriteString(fmt.Sprintf("| Total Transactions | %d |\n", r.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Dropped Records | %d |\n", r.DroppedRecords))
	sb.WriteString("\n")

	// Data Quality warnings (shown only when present)
	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Statistics
	sb.WriteString("## Statistics\n\n")
	if r.TotalWallets > 0 {
		sb.WriteString("| Statistic | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Mean | %.2f |\n", r.Stats.Mean))
		sb.WriteString(fmt.Sprintf("| Median | %.2f |\n", r.Stats.Median))
		sb.WriteString(fmt.Sprintf("| Min | %.2f |\n", r.Stats.Min))
		sb.WriteString(fmt.Sprintf("| Max | %.2f |\n", r.Stats.Max))
		sb.WriteString(fmt.Sprintf("| Stddev | %.2f |\n", r.Stats.Stddev))
		sb.WriteString(fmt.Sprintf("| P10 | %.2f |\n", r.Stats.P10))
		sb.WriteString(fmt.Sprintf("| P25 | %.2f |\n", r.Stats.P25))
		sb.WriteString(fmt.Sprintf("| P75 | %.2f |\n", r.Stats.P75))
		sb.WriteString(fmt.Sprintf("| P90 | %.2f |\n", r.Stats.P90))
	} else {
		sb.WriteString("No wallets scored.\n")
	}
	sb.WriteString("\n")

	// Score Ranges
	sb.WriteString("## Score Distribution by Range\n\n")
	if len(r.RangeCounts) > 0 {
		sb.WriteString("| Score Range | Wallets | Percentage |\n")
		sb.WriteString("|-------------|---------|------------|\n")
		for _, rc := range r.RangeCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n",
				rc.Range.Label, rc.Count, rc.Percent))
		}
	} else {
		sb.WriteString("No distribution data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
