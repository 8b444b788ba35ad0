// Package indicators enriches daily bar histories with technical analysis
// columns used by the scoring and replay layers.
//
// All series functions are deterministic: the same history always produces
// the same snapshots. Values that need more bars than are available so far
// are NaN, and every consumer treats a NaN comparison as false, so a score
// computed during warmup simply earns no points for that dimension.
package indicators

import (
	"math"
	"time"

	"github.com/tradelab/stockbt/market"
)

// MAArrangement classifies the relative order of the moving averages.
type MAArrangement int8

const (
	MAMixed   MAArrangement = iota // averages interleaved
	MABullish                      // MA5 > MA10 > MA20 > MA60
	MABearish                      // MA5 < MA10 < MA20 < MA60
)

// VolumePattern classifies the day's price/volume relationship against the
// 20-day average volume.
type VolumePattern int8

const (
	VolumeFlat VolumePattern = iota
	HeavyVolumeUp
	ShrinkVolumeUp
	HeavyVolumeDown
	ShrinkVolumeDown
)

// Snapshot is one day's indicator-enriched view of a symbol. It is the unit
// consumed by signal providers and by the replay engine's decision policy.
type Snapshot struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	MA5  float64
	MA10 float64
	MA20 float64
	MA60 float64

	MACDDif  float64
	MACDDea  float64
	MACDHist float64

	RSI float64

	KDJK float64
	KDJD float64
	KDJJ float64

	BollUpper    float64
	BollMid      float64
	BollLower    float64
	BollWidth    float64
	BollPosition float64

	ATR    float64
	ATRPct float64

	PivotPoint float64
	R1         float64
	R2         float64
	S1         float64
	S2         float64

	Resistance           float64
	Support              float64
	DistanceToResistance float64
	DistanceToSupport    float64

	VolumeMA       float64
	VolumeRatio    float64
	VolumeRatio5d  float64
	VolumeChange   float64
	VolumePattern  VolumePattern
	PriceChangePct float64

	DistanceFromMA20 float64
	MAArrangement    MAArrangement
}

// Enrich computes the full indicator set over the history and returns one
// snapshot per bar, aligned with the input order.
func Enrich(h market.History) []Snapshot {
	n := len(h)
	if n == 0 {
		return nil
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range h {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		vols[i] = b.Volume
	}

	ma5 := SMA(closes, 5)
	ma10 := SMA(closes, 10)
	ma20 := SMA(closes, 20)
	ma60 := SMA(closes, 60)

	dif, dea, hist := MACD(closes, 12, 26, 9)
	rsi := RSI(closes, 14)
	k, d, j := KDJ(highs, lows, closes, 9, 3, 3)
	upper, mid, lower, width, pos := Bollinger(closes, 20, 2)
	atr := ATR(highs, lows, closes, 14)
	res, sup := SupportResistance(highs, lows, 20)
	pivot, r1, r2, s1, s2 := PivotPoints(highs, lows, closes)

	volMA := SMA(vols, 20)

	out := make([]Snapshot, n)
	for i := range h {
		s := Snapshot{
			Date:   h[i].Date,
			Open:   h[i].Open,
			High:   h[i].High,
			Low:    h[i].Low,
			Close:  h[i].Close,
			Volume: h[i].Volume,

			MA5:  ma5[i],
			MA10: ma10[i],
			MA20: ma20[i],
			MA60: ma60[i],

			MACDDif:  dif[i],
			MACDDea:  dea[i],
			MACDHist: hist[i],

			RSI: rsi[i],

			KDJK: k[i],
			KDJD: d[i],
			KDJJ: j[i],

			BollUpper:    upper[i],
			BollMid:      mid[i],
			BollLower:    lower[i],
			BollWidth:    width[i],
			BollPosition: pos[i],

			ATR: atr[i],

			PivotPoint: pivot[i],
			R1:         r1[i],
			R2:         r2[i],
			S1:         s1[i],
			S2:         s2[i],

			Resistance: res[i],
			Support:    sup[i],

			VolumeMA: volMA[i],
		}

		s.ATRPct = s.ATR / s.Close * 100
		s.DistanceToResistance = (s.Resistance - s.Close) / s.Close * 100
		s.DistanceToSupport = (s.Close - s.Support) / s.Close * 100
		s.DistanceFromMA20 = (s.Close - s.MA20) / s.MA20 * 100
		s.VolumeRatio = s.Volume / s.VolumeMA

		if i > 0 {
			prev := h[i-1]
			s.PriceChangePct = (s.Close - prev.Close) / prev.Close * 100
			s.VolumeChange = (s.Volume - prev.Volume) / prev.Volume * 100
		} else {
			s.PriceChangePct = math.NaN()
			s.VolumeChange = math.NaN()
		}

		s.VolumeRatio5d = volumeRatio5d(vols, i)
		s.VolumePattern = classifyVolume(s.PriceChangePct, s.VolumeRatio)
		s.MAArrangement = classifyArrangement(s.MA5, s.MA10, s.MA20, s.MA60)

		out[i] = s
	}
	return out
}

func classifyArrangement(ma5, ma10, ma20, ma60 float64) MAArrangement {
	switch {
	case ma5 > ma10 && ma10 > ma20 && ma20 > ma60:
		return MABullish
	case ma5 < ma10 && ma10 < ma20 && ma20 < ma60:
		return MABearish
	default:
		return MAMixed
	}
}
