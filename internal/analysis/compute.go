// Package analysis reduces a full wallet score table to population
// statistics and a bucketed histogram. All computations are stateless
// reductions over an immutable input slice.
package analysis

import (
	"math"
	"sort"

	"wallet-credit-lab/internal/domain"
)

// ComputeStats calculates distribution statistics over a score table.
// Scores are copied and sorted internally; the input is never mutated.
// An empty table yields zero-valued stats, not an error.
func ComputeStats(scores []*domain.WalletScore) domain.ScoreStats {
	n := len(scores)
	if n == 0 {
		return domain.ScoreStats{}
	}

	values := make([]float64, n)
	for i, s := range scores {
		values[i] = s.Score
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := computeMean(values)

	return domain.ScoreStats{
		TotalWallets: n,
		Mean:         mean,
		Median:       computePercentile(sorted, 0.50),
		Min:          sorted[0],
		Max:          sorted[n-1],
		Stddev:       computeStddev(values, mean),
		P10:          computePercentile(sorted, 0.10),
		P25:          computePercentile(sorted, 0.25),
		P75:          computePercentile(sorted, 0.75),
		P90:          computePercentile(sorted, 0.90),
	}
}

// ComputeRangeCounts buckets scores into the named score ranges.
// Every score lands in exactly one bucket; percentages sum to 100 for a
// non-empty population (up to rounding).
func ComputeRangeCounts(scores []*domain.WalletScore) []domain.RangeCount {
	counts := make([]domain.RangeCount, len(domain.ScoreRanges))
	for i, r := range domain.ScoreRanges {
		counts[i].Range = r
	}

	for _, s := range scores {
		// Ranges ascend and the last High is the score ceiling, so matching
		// on the upper bound alone leaves no gap for fractional scores.
		for i, r := range domain.ScoreRanges {
			if s.Score <= r.High {
				counts[i].Count++
				break
			}
		}
	}

	total := len(scores)
	if total > 0 {
		for i := range counts {
			counts[i].Percent = float64(counts[i].Count) / float64(total) * 100
		}
	}

	return counts
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0 // Need at least 2 samples for sample stddev
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
