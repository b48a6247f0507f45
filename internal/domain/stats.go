package domain

// ScoreStats summarizes the score distribution over a wallet population.
// Corresponds to score_distribution table in ClickHouse.
type ScoreStats struct {
	TotalWallets int
	Mean         float64
	Median       float64
	Min          float64
	Max          float64
	Stddev       float64 // sample standard deviation (n-1 denominator)
	P10          float64
	P25          float64
	P75          float64
	P90          float64
	ComputedAt   int64 // Unix timestamp in seconds
}

// ScoreRange is a named score bucket for the distribution report.
type ScoreRange struct {
	Label string
	Low   float64 // inclusive
	High  float64 // inclusive
}

// ScoreRanges lists the report buckets in ascending order.
// Bucket boundaries follow the published score interpretation guide.
var ScoreRanges = []ScoreRange{
	{Label: "Very Poor (0-300)", Low: 0, High: 300},
	{Label: "Fair (301-500)", Low: 301, High: 500},
	{Label: "Good (501-700)", Low: 501, High: 700},
	{Label: "Very Good (701-850)", Low: 701, High: 850},
	{Label: "Excellent (851-1000)", Low: 851, High: 1000},
}

// RangeCount is one row of the bucketed score histogram.
type RangeCount struct {
	Range   ScoreRange
	Count   int
	Percent float64 // of total wallets, 0 when population is empty
}
