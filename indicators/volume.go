package indicators

import "math"

// volumeRatio5d is today's volume over the mean of the previous five days'
// volume, excluding today. NaN when fewer than five prior days exist.
func volumeRatio5d(vols []float64, i int) float64 {
	if i < 5 {
		return math.NaN()
	}
	var sum float64
	for x := i - 5; x < i; x++ {
		sum += vols[x]
	}
	mean := sum / 5
	if mean == 0 {
		return math.NaN()
	}
	return vols[i] / mean
}

// classifyVolume labels the day by price direction and the 20-day volume
// ratio: above 1.2 counts as heavy. A NaN price change or ratio reads flat.
func classifyVolume(priceChangePct, volumeRatio float64) VolumePattern {
	switch {
	case priceChangePct > 0 && volumeRatio > 1.2:
		return HeavyVolumeUp
	case priceChangePct > 0 && volumeRatio <= 1.2:
		return ShrinkVolumeUp
	case priceChangePct < 0 && volumeRatio > 1.2:
		return HeavyVolumeDown
	case priceChangePct < 0 && volumeRatio <= 1.2:
		return ShrinkVolumeDown
	default:
		return VolumeFlat
	}
}
