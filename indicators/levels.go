package indicators

import "math"

// PivotPoints returns the classic pivot level series computed from each
// bar's high, low and close:
//
//	pivot = (H+L+C)/3
//	R1 = 2*pivot - L,  R2 = pivot + (H-L)
//	S1 = 2*pivot - H,  S2 = pivot - (H-L)
func PivotPoints(highs, lows, closes []float64) (pivot, r1, r2, s1, s2 []float64) {
	n := len(closes)
	pivot = make([]float64, n)
	r1 = make([]float64, n)
	r2 = make([]float64, n)
	s1 = make([]float64, n)
	s2 = make([]float64, n)

	for i := 0; i < n; i++ {
		p := (highs[i] + lows[i] + closes[i]) / 3
		rng := highs[i] - lows[i]
		pivot[i] = p
		r1[i] = 2*p - lows[i]
		r2[i] = p + rng
		s1[i] = 2*p - highs[i]
		s2[i] = p - rng
	}
	return pivot, r1, r2, s1, s2
}

// SupportResistance returns the rolling high (resistance) and rolling low
// (support) series over the lookback window. NaN until the window fills.
func SupportResistance(highs, lows []float64, lookback int) (resistance, support []float64) {
	n := len(highs)
	resistance = make([]float64, n)
	support = make([]float64, n)

	for i := 0; i < n; i++ {
		if i < lookback-1 {
			resistance[i] = math.NaN()
			support[i] = math.NaN()
			continue
		}
		hh := highs[i-lookback+1]
		ll := lows[i-lookback+1]
		for x := i - lookback + 2; x <= i; x++ {
			if highs[x] > hh {
				hh = highs[x]
			}
			if lows[x] < ll {
				ll = lows[x]
			}
		}
		resistance[i] = hh
		support[i] = ll
	}
	return resistance, support
}
