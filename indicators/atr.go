package indicators

// ATR returns the Average True Range series: a rolling simple mean of the
// true range over the period. The first bar's true range is high-low since
// there is no prior close.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		r := highs[i] - lows[i]
		if i > 0 {
			if hc := abs(highs[i] - closes[i-1]); hc > r {
				r = hc
			}
			if lc := abs(lows[i] - closes[i-1]); lc > r {
				r = lc
			}
		}
		tr[i] = r
	}
	return SMA(tr, period)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
