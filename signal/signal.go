// Package signal turns one day's indicator snapshot into a composite
// 0-100 score with supporting labels. The composite is the equal-weight
// fusion of two independently computed sub-scores: the technical indicator
// score and the trend-strategy score.
package signal

import "github.com/tradelab/stockbt/indicators"

// Dimension is one scored dimension of the technical score with its
// achieved points and maximum.
type Dimension struct {
	Name  string
	Score int
	Max   int
}

// Result is the full scoring output for one (symbol, day) snapshot.
type Result struct {
	// Score is the fused composite, 0-100.
	Score int

	Technical int
	Trend     int

	Rating     string
	TrendLabel string

	Breakdown []Dimension
	Details   []string
}

// Provider computes a score for one day's snapshot. Implementations must be
// pure: the same snapshot always yields the same result.
type Provider interface {
	Score(snap indicators.Snapshot) Result
}

// Fuse combines the technical indicator score and the trend-strategy score
// with equal weight. It is kept as a named function so either sub-score
// source can be swapped or tested on its own.
func Fuse(technical, trend int) int {
	return (technical + trend) / 2
}

// Composite is the default Provider: technical score fused with the trend
// score.
type Composite struct{}

func (Composite) Score(snap indicators.Snapshot) Result {
	tech, breakdown, details := TechnicalScore(snap)
	trend := TrendScore(snap)

	fused := Fuse(tech, trend.Score)

	return Result{
		Score:      fused,
		Technical:  tech,
		Trend:      trend.Score,
		Rating:     Rating(fused),
		TrendLabel: trend.Status.String(),
		Breakdown:  breakdown,
		Details:    details,
	}
}

// Rating maps a composite score to its label.
func Rating(score int) string {
	switch {
	case score >= 80:
		return "strong bullish"
	case score >= 65:
		return "bullish"
	case score >= 50:
		return "neutral"
	case score >= 35:
		return "bearish"
	default:
		return "strong bearish"
	}
}
