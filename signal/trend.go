package signal

import (
	"math"

	"github.com/tradelab/stockbt/indicators"
)

// TrendStatus classifies the moving-average alignment.
type TrendStatus int8

const (
	Consolidation TrendStatus = iota
	Bull
	WeakBull
	Bear
)

func (s TrendStatus) String() string {
	switch s {
	case Bull:
		return "bull alignment"
	case WeakBull:
		return "weak bull"
	case Bear:
		return "bear alignment"
	default:
		return "consolidation"
	}
}

// VolumeStatus classifies today's volume against the previous five days.
type VolumeStatus int8

const (
	VolumeNormal VolumeStatus = iota
	HeavyUp
	HeavyDown
	ShrinkUp
	ShrinkPullback
)

// Volume-ratio thresholds against the 5-day mean.
const (
	heavyVolumeRatio  = 1.5
	shrinkVolumeRatio = 0.7
)

// TrendResult is the trend-strategy sub-score for one snapshot.
type TrendResult struct {
	Status  TrendStatus
	Volume  VolumeStatus
	BiasMA5 float64
	Score   int
}

// TrendScore rates one snapshot 0-100 on the trend strategy, independently
// of the technical score:
//
//	trend alignment 40  MA5 > MA10 > MA20 earns full marks
//	bias vs MA5     30  entries close to MA5 are preferred
//	volume          20  a shrinking-volume pullback is the best setup
func TrendScore(s indicators.Snapshot) TrendResult {
	var r TrendResult

	switch {
	case s.MA5 > s.MA10 && s.MA10 > s.MA20:
		r.Status = Bull
	case s.MA5 > s.MA10:
		r.Status = WeakBull
	case s.MA5 < s.MA10 && s.MA10 < s.MA20:
		r.Status = Bear
	default:
		r.Status = Consolidation
	}

	r.BiasMA5 = math.NaN()
	if s.MA5 > 0 {
		r.BiasMA5 = (s.Close - s.MA5) / s.MA5 * 100
	}

	switch {
	case s.VolumeRatio5d >= heavyVolumeRatio && s.PriceChangePct > 0:
		r.Volume = HeavyUp
	case s.VolumeRatio5d >= heavyVolumeRatio:
		r.Volume = HeavyDown
	case s.VolumeRatio5d <= shrinkVolumeRatio && s.PriceChangePct > 0:
		r.Volume = ShrinkUp
	case s.VolumeRatio5d <= shrinkVolumeRatio:
		r.Volume = ShrinkPullback
	}

	score := 0
	switch r.Status {
	case Bull:
		score += 40
	case WeakBull:
		score += 20
	}

	switch {
	case r.BiasMA5 > -2 && r.BiasMA5 < 2:
		score += 30 // sweet spot
	case r.BiasMA5 > -5 && r.BiasMA5 < 5:
		score += 20
	}

	switch r.Volume {
	case ShrinkPullback:
		score += 20
	case HeavyUp:
		score += 15
	case ShrinkUp:
		score += 10
	}

	r.Score = score
	return r
}
