package indicators

import "math"

// Bollinger returns the upper band, middle band (SMA), lower band, band
// width (% of mid) and band position (0-100, where the close sits between
// the bands) series. The standard deviation is the sample deviation of the
// window.
func Bollinger(closes []float64, period int, stdDev float64) (upper, mid, lower, width, position []float64) {
	n := len(closes)
	mid = SMA(closes, period)
	upper = make([]float64, n)
	lower = make([]float64, n)
	width = make([]float64, n)
	position = make([]float64, n)

	for i := 0; i < n; i++ {
		if i < period-1 {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			width[i] = math.NaN()
			position[i] = math.NaN()
			continue
		}

		var ss float64
		for x := i - period + 1; x <= i; x++ {
			dv := closes[x] - mid[i]
			ss += dv * dv
		}
		sd := math.Sqrt(ss / float64(period-1))

		upper[i] = mid[i] + sd*stdDev
		lower[i] = mid[i] - sd*stdDev
		width[i] = (upper[i] - lower[i]) / mid[i] * 100
		if upper[i] == lower[i] {
			position[i] = math.NaN()
		} else {
			position[i] = (closes[i] - lower[i]) / (upper[i] - lower[i]) * 100
		}
	}
	return upper, mid, lower, width, position
}
