package indicators

import "math"

// RSI returns the Relative Strength Index series using simple rolling means
// of gains and losses over the period. Values before the window fills are
// NaN. A window with losses but no gains reads 0; gains but no losses, 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if n < 2 {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < n; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = math.NaN() // flat window, undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// KDJ returns the stochastic K, D and J series. The raw stochastic value
// uses a rolling high/low window that grows from the first bar; K and D are
// exponential means with com = m1-1 and m2-1.
func KDJ(highs, lows, closes []float64, n, m1, m2 int) (k, d, j []float64) {
	count := len(closes)
	rsv := make([]float64, count)

	for i := 0; i < count; i++ {
		lo := i - n + 1
		if lo < 0 {
			lo = 0
		}
		hh := highs[lo]
		ll := lows[lo]
		for x := lo + 1; x <= i; x++ {
			if highs[x] > hh {
				hh = highs[x]
			}
			if lows[x] < ll {
				ll = lows[x]
			}
		}
		if hh == ll {
			rsv[i] = math.NaN() // flat window, undefined
		} else {
			rsv[i] = (closes[i] - ll) / (hh - ll) * 100
		}
	}

	k = ewmCom(rsv, float64(m1-1))
	d = ewmCom(k, float64(m2-1))

	j = make([]float64, count)
	for i := range j {
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j
}
