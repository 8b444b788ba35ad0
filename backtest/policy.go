package backtest

// Policy holds the fixed decision thresholds applied by the replay loop.
// The zero value is not useful; start from DefaultPolicy.
type Policy struct {
	// EntryScore is the minimum composite score to enter in single-symbol
	// mode; PortfolioEntryScore applies in portfolio mode.
	EntryScore          int
	PortfolioEntryScore int

	// ExitScore closes a position when the composite drops below it.
	ExitScore int

	// StopLossRatio closes a position when close < MA20 * StopLossRatio.
	StopLossRatio float64

	// CashFraction is the share of free cash invested on a single-symbol
	// entry.
	CashFraction float64

	// MinTradeAmount is the smallest notional worth entering in
	// single-symbol mode; MinSlotAmount is the per-slot floor in portfolio
	// mode.
	MinTradeAmount float64
	MinSlotAmount  float64

	// LotSize is the share rounding unit.
	LotSize int64

	// MaxPositions caps concurrent holdings in portfolio mode.
	MaxPositions int

	// LookbackDays is the calendar warm-up fetched before the start date so
	// long-window indicators are valid from day one.
	LookbackDays int

	// MinHistoryBars is the minimum bar count below which a symbol's run is
	// aborted (or the symbol excluded from a portfolio pool).
	MinHistoryBars int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		EntryScore:          75,
		PortfolioEntryScore: 80,
		ExitScore:           45,
		StopLossRatio:       0.95,
		CashFraction:        0.95,
		MinTradeAmount:      2000,
		MinSlotAmount:       5000,
		LotSize:             100,
		MaxPositions:        3,
		LookbackDays:        150,
		MinHistoryBars:      60,
	}
}

// lotShares rounds a notional amount at the given price down to a whole
// number of lots.
func (p Policy) lotShares(amount, price float64) int64 {
	if price <= 0 {
		return 0
	}
	lots := int64(amount / price / float64(p.LotSize))
	return lots * p.LotSize
}
