package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestLedger(capital float64) *Ledger {
	return New(capital, DefaultFees(), nil)
}

func TestCommissionFloor(t *testing.T) {
	t.Parallel()

	fees := DefaultFees()

	// 0.03% of 1000 = 0.30, below the 5.0 floor.
	assert.InDelta(t, 5.0, fees.Commission(1000), 1e-9)
	// 0.03% of 100000 = 30, above the floor.
	assert.InDelta(t, 30.0, fees.Commission(100000), 1e-9)
	assert.InDelta(t, 100.0, fees.Tax(100000), 1e-9)
}

func TestBuyRejectsBadOrders(t *testing.T) {
	t.Parallel()

	l := newTestLedger(10000)

	assert.False(t, l.Buy(day, "600519", 0, 100))
	assert.False(t, l.Buy(day, "600519", 10, 0))
	assert.False(t, l.Buy(day, "600519", 10, -100))
	assert.False(t, l.Buy(day, "600519", 10000, 100)) // needs 1,000,000+

	// No state change on any rejection.
	assert.InDelta(t, 10000, l.Cash(), 1e-9)
	assert.Empty(t, l.Trades())
	assert.Equal(t, 0, l.OpenPositions())
}

func TestBuyDeductsCashAndRecordsTrade(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)

	assert.True(t, l.Buy(day, "600519", 10.0, 1000))

	amount := 10000.0
	commission := DefaultFees().Commission(amount)
	assert.InDelta(t, 100000-amount-commission, l.Cash(), 1e-9)

	pos, ok := l.Position("600519")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), pos.Volume)
	assert.InDelta(t, 10.0, pos.AverageCost, 1e-9)

	trades := l.Trades()
	assert.Len(t, trades, 1)
	assert.Equal(t, Buy, trades[0].Action)
	assert.InDelta(t, amount, trades[0].Amount, 1e-9)
	assert.InDelta(t, commission, trades[0].Fee, 1e-9)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)

	assert.True(t, l.Buy(day, "600519", 10.0, 100))
	assert.True(t, l.Buy(day.AddDate(0, 0, 1), "600519", 20.0, 100))

	pos, ok := l.Position("600519")
	assert.True(t, ok)
	assert.Equal(t, int64(200), pos.Volume)
	assert.InDelta(t, 15.0, pos.AverageCost, 1e-9)
}

func TestSellUnheldSymbolFails(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.False(t, l.Sell(day, "600519", 10.0, 100))
	assert.InDelta(t, 100000, l.Cash(), 1e-9)
	assert.Empty(t, l.Trades())
}

func TestSellAllSemantics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		volume int64
	}{
		{"zero_volume", 0},
		{"negative_volume", -5},
		{"over_held", 9999},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := newTestLedger(100000)
			assert.True(t, l.Buy(day, "600519", 10.0, 500))
			assert.True(t, l.Sell(day.AddDate(0, 0, 1), "600519", 11.0, tt.volume))

			_, held := l.Position("600519")
			assert.False(t, held, "position must be fully liquidated")

			trades := l.Trades()
			assert.Len(t, trades, 2)
			assert.Equal(t, int64(500), trades[1].Volume)
		})
	}
}

func TestSellRealizedPnLAndPartial(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 500))
	assert.True(t, l.Sell(day.AddDate(0, 0, 1), "600519", 12.0, 200))

	pos, ok := l.Position("600519")
	assert.True(t, ok)
	assert.Equal(t, int64(300), pos.Volume)
	assert.InDelta(t, 10.0, pos.AverageCost, 1e-9)

	sell := l.Trades()[1]
	assert.Equal(t, Sell, sell.Action)
	assert.InDelta(t, (12.0-10.0)*200, sell.RealizedPnL, 1e-9)

	amount := 12.0 * 200
	fee := DefaultFees().Commission(amount) + DefaultFees().Tax(amount)
	assert.InDelta(t, fee, sell.Fee, 1e-9)
}

func TestZeroFeeRoundTripRestoresCapital(t *testing.T) {
	t.Parallel()

	l := New(50000, Fees{}, nil)

	assert.True(t, l.Buy(day, "000001", 12.34, 800))
	assert.True(t, l.SellAll(day, "000001", 12.34))

	assert.InDelta(t, 50000, l.Cash(), 1e-9)
	assert.Equal(t, 0, l.OpenPositions())
}

func TestCashNeverNegative(t *testing.T) {
	t.Parallel()

	l := newTestLedger(20000)

	// Greedy sequence of buys and sells; cash must stay non-negative after
	// every accepted operation.
	prices := []float64{10, 11, 9, 12, 8, 15, 7}
	for i, p := range prices {
		d := day.AddDate(0, 0, i)
		l.Buy(d, "600519", p, 1900) // most will be rejected
		assert.GreaterOrEqual(t, l.Cash(), 0.0)
		if i%2 == 1 {
			l.Sell(d, "600519", p, 0)
			assert.GreaterOrEqual(t, l.Cash(), 0.0)
		}
	}

	// A tiny-notional sell nets negative income once the commission floor
	// kicks in. With almost no cash left, accepting it would overdraw the
	// account, so it must be rejected outright.
	tight := newTestLedger(1005.5)
	assert.True(t, tight.Buy(day, "600519", 10.0, 100))
	assert.InDelta(t, 0.50, tight.Cash(), 1e-9)

	assert.False(t, tight.Sell(day, "600519", 0.01, 0))
	assert.GreaterOrEqual(t, tight.Cash(), 0.0)
	assert.InDelta(t, 0.50, tight.Cash(), 1e-9)

	pos, ok := tight.Position("600519")
	assert.True(t, ok, "rejected sell must not touch the position")
	assert.Equal(t, int64(100), pos.Volume)
	assert.Len(t, tight.Trades(), 1)
}

func TestSellRejectsNonPositivePrice(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))
	cash := l.Cash()

	assert.False(t, l.Sell(day, "600519", 0, 0))
	assert.False(t, l.Sell(day, "600519", -1.5, 100))

	assert.InDelta(t, cash, l.Cash(), 1e-9)
	pos, ok := l.Position("600519")
	assert.True(t, ok)
	assert.Equal(t, int64(1000), pos.Volume)
	assert.Len(t, l.Trades(), 1)
}

func TestUpdateDailyStatsIdentity(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))
	assert.True(t, l.Buy(day, "000001", 20.0, 500))

	marks := map[string]float64{"600519": 11.0, "000001": 19.0}
	snap := l.UpdateDailyStats(day, marks, nil)

	// total = cash + sum(volume * mark)
	expectedHoldings := 1000*11.0 + 500*19.0
	assert.InDelta(t, expectedHoldings, snap.HoldingsValue, 1e-9)
	assert.InDelta(t, l.Cash()+expectedHoldings, snap.TotalValue, 1e-9)
	assert.Len(t, l.History(), 1)

	// Marks sorted by symbol, all priced from the map.
	assert.Equal(t, "000001", snap.Marks[0].Symbol)
	assert.Equal(t, "600519", snap.Marks[1].Symbol)
	for _, m := range snap.Marks {
		assert.Equal(t, MarkClose, m.Status)
	}
}

func TestMarkCostFallbackIsAudited(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))

	snap := l.UpdateDailyStats(day, nil, nil)

	assert.Len(t, snap.Marks, 1)
	assert.Equal(t, MarkCostFallback, snap.Marks[0].Status)
	assert.InDelta(t, 10.0, snap.Marks[0].Price, 1e-9)
	assert.InDelta(t, 1000*10.0, snap.HoldingsValue, 1e-9)
}

func TestTotalValueIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))

	marks := map[string]float64{"600519": 10.5}
	first := l.TotalValue(marks)
	second := l.TotalValue(marks)

	assert.InDelta(t, first, second, 1e-12)
	assert.Empty(t, l.History(), "TotalValue must not append history")
}

func TestFailedOperationsLeaveLedgerUntouched(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))
	before := l.TotalValue(nil)
	tradesBefore := len(l.Trades())

	assert.False(t, l.Buy(day, "000001", 500.0, 100000)) // insufficient cash
	assert.False(t, l.Sell(day, "999999", 10.0, 0))      // unheld

	assert.InDelta(t, before, l.TotalValue(nil), 1e-12)
	assert.Len(t, l.Trades(), tradesBefore)
}

func TestMarkCarriedForwardIsAudited(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))
	assert.True(t, l.Buy(day, "000001", 20.0, 500))

	marks := map[string]float64{"600519": 11.0}
	carried := map[string]float64{"000001": 19.5}
	snap := l.UpdateDailyStats(day, marks, carried)

	assert.Equal(t, "000001", snap.Marks[0].Symbol)
	assert.Equal(t, MarkCarriedForward, snap.Marks[0].Status)
	assert.InDelta(t, 19.5, snap.Marks[0].Price, 1e-9)
	assert.Equal(t, MarkClose, snap.Marks[1].Status)

	// A fresh close wins over a carried price for the same symbol.
	both := l.UpdateDailyStats(day.AddDate(0, 0, 1),
		map[string]float64{"600519": 12.0, "000001": 20.5},
		map[string]float64{"600519": 11.0})
	for _, m := range both.Marks {
		assert.Equal(t, MarkClose, m.Status)
	}
}

func TestTradesAndHistoryReturnCopies(t *testing.T) {
	t.Parallel()

	l := newTestLedger(100000)
	assert.True(t, l.Buy(day, "600519", 10.0, 1000))
	l.UpdateDailyStats(day, map[string]float64{"600519": 10.5}, nil)

	trades := l.Trades()
	trades[0].Symbol = "mutated"
	assert.Equal(t, "600519", l.Trades()[0].Symbol)

	hist := l.History()
	hist[0].TotalValue = -1
	hist[0].Marks[0].Price = -1
	assert.InDelta(t, 10.5, l.History()[0].Marks[0].Price, 1e-9)
	assert.Greater(t, l.History()[0].TotalValue, 0.0)
}
