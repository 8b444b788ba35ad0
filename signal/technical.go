package signal

import (
	"fmt"

	"github.com/tradelab/stockbt/indicators"
)

// TechnicalScore rates one snapshot 0-100 across five dimensions:
//
//	trend              30  price vs MA20, moving-average arrangement
//	momentum           25  MACD cross/histogram, RSI zone
//	overbought/oversold 20 RSI, KDJ, Bollinger position
//	volume             15  price/volume pattern
//	risk               10  distance from MA20 and from support/resistance
//
// NaN indicator values compare false and earn no points, so scores during
// warmup degrade instead of failing.
func TechnicalScore(s indicators.Snapshot) (int, []Dimension, []string) {
	var details []string

	// Trend (30)
	trend := 0
	if s.Close > s.MA20 {
		trend += 15
		details = append(details, "price above MA20 (+15)")
	} else {
		details = append(details, "price below MA20 (+0)")
	}
	switch s.MAArrangement {
	case indicators.MABullish:
		trend += 15
		details = append(details, "bullish MA arrangement (+15)")
	case indicators.MABearish:
		details = append(details, "bearish MA arrangement (+0)")
	default:
		trend += 7
		details = append(details, "mixed MA arrangement (+7)")
	}

	// Momentum (25)
	momentum := 0
	if s.MACDDif > s.MACDDea {
		momentum += 10
		details = append(details, "MACD golden cross (+10)")
	} else {
		details = append(details, "MACD dead cross (+0)")
	}
	if s.MACDHist > 0 {
		momentum += 5
		details = append(details, "MACD histogram positive (+5)")
	} else {
		details = append(details, "MACD histogram negative (+0)")
	}
	switch {
	case s.RSI >= 40 && s.RSI <= 60:
		momentum += 10
		details = append(details, fmt.Sprintf("RSI neutral (%.1f) (+10)", s.RSI))
	case (s.RSI >= 30 && s.RSI < 40) || (s.RSI > 60 && s.RSI <= 70):
		momentum += 5
		details = append(details, fmt.Sprintf("RSI leaning (%.1f) (+5)", s.RSI))
	default:
		details = append(details, fmt.Sprintf("RSI extreme (%.1f) (+0)", s.RSI))
	}

	// Overbought / oversold (20)
	over := 0
	switch {
	case s.RSI >= 30 && s.RSI <= 70:
		over += 8
		details = append(details, "RSI in range (+8)")
	case s.RSI > 70:
		details = append(details, "RSI overbought (+0)")
	default:
		over += 4 // oversold can be an opportunity
		details = append(details, "RSI oversold (+4)")
	}
	if s.KDJK >= 20 && s.KDJK <= 80 {
		over += 6
		details = append(details, "KDJ in range (+6)")
	} else {
		details = append(details, "KDJ extreme (+0)")
	}
	switch {
	case s.BollPosition >= 20 && s.BollPosition <= 80:
		over += 6
		details = append(details, "near Bollinger mid band (+6)")
	case s.BollPosition > 80:
		details = append(details, "near Bollinger upper band (+0)")
	default:
		over += 3
		details = append(details, "near Bollinger lower band (+3)")
	}

	// Volume (15)
	volume := 0
	switch s.VolumePattern {
	case indicators.HeavyVolumeUp:
		volume += 15
		details = append(details, "heavy volume advance (+15)")
	case indicators.ShrinkVolumeUp:
		volume += 8
		details = append(details, "advance on shrinking volume (+8)")
	case indicators.ShrinkVolumeDown:
		volume += 10
		details = append(details, "pullback on shrinking volume (+10)")
	case indicators.HeavyVolumeDown:
		details = append(details, "heavy volume decline (+0)")
	default:
		volume += 7
		details = append(details, "flat consolidation (+7)")
	}

	// Risk (10)
	risk := 0
	dist := s.DistanceFromMA20
	if dist < 0 {
		dist = -dist
	}
	switch {
	case dist <= 5:
		risk += 5
		details = append(details, "close to MA20, contained risk (+5)")
	case dist <= 10:
		risk += 3
		details = append(details, "moderate distance from MA20 (+3)")
	default:
		details = append(details, "far from MA20, chase risk (+0)")
	}
	switch {
	case s.DistanceToSupport > 3 && s.DistanceToResistance > 3:
		risk += 5
		details = append(details, "clear of support/resistance (+5)")
	case s.DistanceToSupport <= 3:
		risk += 3
		details = append(details, "near support (+3)")
	default:
		details = append(details, "near resistance (+0)")
	}

	breakdown := []Dimension{
		{Name: "trend", Score: trend, Max: 30},
		{Name: "momentum", Score: momentum, Max: 25},
		{Name: "overbought/oversold", Score: over, Max: 20},
		{Name: "volume", Score: volume, Max: 15},
		{Name: "risk", Score: risk, Max: 10},
	}

	total := trend + momentum + over + volume + risk
	return total, breakdown, details
}
