package backtest

import (
	"math"

	"github.com/tradelab/stockbt/ledger"
)

// Performance is the summary statistics of one run, derived purely from the
// equity history and trade log.
type Performance struct {
	InitialCapital float64
	FinalValue     float64
	TotalReturnPct float64
	CAGRPct        float64
	MaxDrawdownPct float64 // always <= 0

	Wins            int
	Losses          int
	WinRatePct      float64
	AvgWin          float64
	AvgLoss         float64 // magnitude, >= 0
	ProfitLossRatio float64 // +Inf when there are wins and no losses
	LargestWin      float64
	LargestLoss     float64 // magnitude, >= 0

	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
}

// Analyze reduces an equity history and trade log into performance
// statistics. It mutates nothing and is safe to call repeatedly.
func Analyze(equity []ledger.EquitySnapshot, trades []ledger.Trade, initialCapital float64) Performance {
	p := Performance{InitialCapital: initialCapital, FinalValue: initialCapital}
	if len(equity) > 0 {
		p.FinalValue = equity[len(equity)-1].TotalValue
	}

	if initialCapital > 0 {
		p.TotalReturnPct = (p.FinalValue - initialCapital) / initialCapital * 100
	}

	if len(equity) > 1 {
		elapsed := equity[len(equity)-1].Date.Sub(equity[0].Date).Hours() / 24
		if elapsed > 0 && initialCapital > 0 {
			p.CAGRPct = (math.Pow(p.FinalValue/initialCapital, 365/elapsed) - 1) * 100
		}
	}

	p.MaxDrawdownPct = maxDrawdown(equity)
	p.tradeStats(trades)
	return p
}

// maxDrawdown returns the worst running-peak decline in percent (<= 0).
func maxDrawdown(equity []ledger.EquitySnapshot) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, snap := range equity {
		if snap.TotalValue > peak {
			peak = snap.TotalValue
		}
		if peak > 0 {
			dd := (snap.TotalValue - peak) / peak * 100
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// tradeStats fills the win/loss fields from SELL trades. A sell with
// realized pnl > 0 is a win, everything else a loss.
func (p *Performance) tradeStats(trades []ledger.Trade) {
	var winSum, lossSum float64
	var winStreak, lossStreak int

	for _, t := range trades {
		if t.Action != ledger.Sell {
			continue
		}
		if t.RealizedPnL > 0 {
			p.Wins++
			winSum += t.RealizedPnL
			if t.RealizedPnL > p.LargestWin {
				p.LargestWin = t.RealizedPnL
			}
			winStreak++
			lossStreak = 0
			if winStreak > p.MaxConsecutiveWins {
				p.MaxConsecutiveWins = winStreak
			}
		} else {
			p.Losses++
			lossSum += -t.RealizedPnL
			if -t.RealizedPnL > p.LargestLoss {
				p.LargestLoss = -t.RealizedPnL
			}
			lossStreak++
			winStreak = 0
			if lossStreak > p.MaxConsecutiveLosses {
				p.MaxConsecutiveLosses = lossStreak
			}
		}
	}

	total := p.Wins + p.Losses
	if total > 0 {
		p.WinRatePct = float64(p.Wins) / float64(total) * 100
	}
	if p.Wins > 0 {
		p.AvgWin = winSum / float64(p.Wins)
	}
	if p.Losses > 0 {
		p.AvgLoss = lossSum / float64(p.Losses)
	}

	switch {
	case p.Losses == 0 && p.Wins > 0:
		p.ProfitLossRatio = math.Inf(1)
	case p.AvgLoss > 0:
		p.ProfitLossRatio = p.AvgWin / p.AvgLoss
	}
}
