package indicators

import "math"

// SMA returns the simple moving average series for the given period.
// Entries before the window fills are NaN.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// EMA returns the exponential moving average series with smoothing
// alpha = 2/(span+1), seeded with the first value.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*alpha + out[i-1]
	}
	return out
}

// ewmCom is the recursive exponential mean with alpha = 1/(1+com), used by
// the KDJ smoothing. NaN inputs carry the previous value forward.
func ewmCom(values []float64, com float64) []float64 {
	out := make([]float64, len(values))
	alpha := 1.0 / (1.0 + com)
	prev := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = prev
			continue
		}
		if math.IsNaN(prev) {
			prev = v
		} else {
			prev = (v-prev)*alpha + prev
		}
		out[i] = prev
	}
	return out
}
