package indicators

// MACD returns the DIF (fast EMA minus slow EMA), DEA (signal EMA of DIF)
// and histogram (2*(DIF-DEA)) series.
func MACD(closes []float64, fast, slow, signal int) (dif, dea, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	dif = make([]float64, len(closes))
	for i := range closes {
		dif[i] = emaFast[i] - emaSlow[i]
	}

	dea = EMA(dif, signal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = (dif[i] - dea[i]) * 2
	}
	return dif, dea, hist
}
