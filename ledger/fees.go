package ledger

// Fees models the brokerage cost structure: a percentage commission with a
// floor on both sides, and a sell-side-only stamp duty.
type Fees struct {
	CommissionRate float64 // e.g. 0.0003 = 0.03%
	MinCommission  float64 // commission floor in currency units
	StampDutyRate  float64 // sell side only, e.g. 0.001 = 0.1%
}

// DefaultFees matches the A-share retail brokerage convention.
func DefaultFees() Fees {
	return Fees{
		CommissionRate: 0.0003,
		MinCommission:  5.0,
		StampDutyRate:  0.001,
	}
}

// Commission returns the brokerage commission for a trade amount.
func (f Fees) Commission(amount float64) float64 {
	c := amount * f.CommissionRate
	if c < f.MinCommission {
		return f.MinCommission
	}
	return c
}

// Tax returns the sell-side stamp duty for a trade amount.
func (f Fees) Tax(amount float64) float64 {
	return amount * f.StampDutyRate
}
