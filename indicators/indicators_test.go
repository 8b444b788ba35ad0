package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradelab/stockbt/market"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4, 5}
	got := SMA(values, 3)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestEMASeededWithFirstValue(t *testing.T) {
	t.Parallel()

	values := []float64{10, 11, 12}
	got := EMA(values, 3) // alpha = 0.5

	assert.InDelta(t, 10.0, got[0], 1e-9)
	assert.InDelta(t, 10.5, got[1], 1e-9)
	assert.InDelta(t, 11.25, got[2], 1e-9)
}

func TestRSIAllGainsReadsHundred(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	got := RSI(closes, 14)

	assert.True(t, math.IsNaN(got[13]))
	assert.InDelta(t, 100.0, got[14], 1e-9)
	assert.InDelta(t, 100.0, got[19], 1e-9)
}

func TestRSIMixedWindow(t *testing.T) {
	t.Parallel()

	// Alternate +2/-1 moves: avg gain 2*7/14=1, avg loss 1*7/14=0.5, RS=2.
	closes := []float64{10}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}
	got := RSI(closes, 14)
	assert.InDelta(t, 100-100/3.0, got[14], 1e-9)
}

func TestATRFlatFirstBar(t *testing.T) {
	t.Parallel()

	highs := []float64{10, 11, 12}
	lows := []float64{8, 9, 10}
	closes := []float64{9, 10, 11}
	got := ATR(highs, lows, closes, 3)

	// TR = [2, 2, 2] -> ATR(3) = 2 at index 2.
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
}

func TestBollingerBands(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 12, 14, 16, 18}
	upper, mid, lower, width, pos := Bollinger(closes, 5, 2)

	// mean 14, sample sd of {10,12,14,16,18} = sqrt(40/4) = sqrt(10)
	sd := math.Sqrt(10)
	assert.InDelta(t, 14.0, mid[4], 1e-9)
	assert.InDelta(t, 14+2*sd, upper[4], 1e-9)
	assert.InDelta(t, 14-2*sd, lower[4], 1e-9)
	assert.InDelta(t, (4*sd)/14*100, width[4], 1e-9)
	assert.InDelta(t, (18-(14-2*sd))/(4*sd)*100, pos[4], 1e-9)
}

func TestPivotPoints(t *testing.T) {
	t.Parallel()

	pivot, r1, r2, s1, s2 := PivotPoints([]float64{12}, []float64{9}, []float64{10.5})

	p := (12 + 9 + 10.5) / 3
	assert.InDelta(t, p, pivot[0], 1e-9)
	assert.InDelta(t, 2*p-9, r1[0], 1e-9)
	assert.InDelta(t, p+3, r2[0], 1e-9)
	assert.InDelta(t, 2*p-12, s1[0], 1e-9)
	assert.InDelta(t, p-3, s2[0], 1e-9)
}

func TestKDJFlatWindowIsUndefined(t *testing.T) {
	t.Parallel()

	n := 10
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i], lows[i], closes[i] = 10, 10, 10
	}
	k, d, j := KDJ(highs, lows, closes, 9, 3, 3)
	assert.True(t, math.IsNaN(k[n-1]))
	assert.True(t, math.IsNaN(d[n-1]))
	assert.True(t, math.IsNaN(j[n-1]))
}

func testHistory(n int, close func(i int) float64, vol func(i int) float64) market.History {
	h := make(market.History, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := close(i)
		h[i] = market.Bar{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: vol(i),
		}
	}
	return h
}

func TestEnrichUptrend(t *testing.T) {
	t.Parallel()

	h := testHistory(80,
		func(i int) float64 { return 10 + float64(i)*0.1 },
		func(i int) float64 { return 100000 },
	)
	snaps := Enrich(h)
	assert.Len(t, snaps, 80)

	last := snaps[79]
	assert.Equal(t, MABullish, last.MAArrangement)
	assert.Greater(t, last.Close, last.MA20)
	assert.Greater(t, last.MA5, last.MA10)
	assert.Greater(t, last.MA20, last.MA60)
	assert.Greater(t, last.MACDDif, 0.0)
	assert.InDelta(t, 1.0, last.VolumeRatio, 1e-9)
	assert.InDelta(t, 1.0, last.VolumeRatio5d, 1e-9)
	assert.Equal(t, ShrinkVolumeUp, last.VolumePattern)
	assert.Greater(t, last.DistanceFromMA20, 0.0)
	assert.InDelta(t, last.Resistance, last.High, 1e-9)
}

func TestEnrichWarmupIsNaN(t *testing.T) {
	t.Parallel()

	h := testHistory(10,
		func(i int) float64 { return 10 + float64(i)*0.1 },
		func(i int) float64 { return 100000 },
	)
	snaps := Enrich(h)

	assert.True(t, math.IsNaN(snaps[3].MA5))
	assert.True(t, math.IsNaN(snaps[9].MA20))
	assert.True(t, math.IsNaN(snaps[9].MA60))
	assert.True(t, math.IsNaN(snaps[0].PriceChangePct))
	assert.False(t, math.IsNaN(snaps[9].MA10))
}

func TestClassifyVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		change   float64
		ratio    float64
		expected VolumePattern
	}{
		{"heavy_up", 1.0, 1.5, HeavyVolumeUp},
		{"shrink_up", 1.0, 0.8, ShrinkVolumeUp},
		{"heavy_down", -1.0, 1.5, HeavyVolumeDown},
		{"shrink_down", -1.0, 0.8, ShrinkVolumeDown},
		{"flat_price", 0.0, 2.0, VolumeFlat},
		{"nan_change", math.NaN(), 2.0, VolumeFlat},
		{"nan_ratio", 1.0, math.NaN(), VolumeFlat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, classifyVolume(tt.change, tt.ratio))
		})
	}
}
