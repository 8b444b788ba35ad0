package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/ledger"
)

func TestBuildRecords(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := &backtest.Result{
		Symbols:    []string{"600519"},
		Start:      start,
		End:        start.AddDate(0, 0, 1),
		FinalValue: 99848.64,
		TradeCount: 2,
		Trades: []ledger.Trade{
			{Date: start, Action: ledger.Buy, Symbol: "600519", Price: 11, Volume: 8600, Fee: 28.38, Amount: 94600},
			{Date: start.AddDate(0, 0, 1), Action: ledger.Sell, Symbol: "600519", Price: 11, Volume: 8600, Fee: 122.98, Amount: 94600, RealizedPnL: -151.36},
		},
		Equity: []ledger.EquitySnapshot{
			{Date: start, TotalValue: 99971.62, Cash: 5371.62, HoldingsValue: 94600},
			{Date: start.AddDate(0, 0, 1), TotalValue: 99848.64, Cash: 99848.64},
		},
	}
	perf := backtest.Analyze(res.Equity, res.Trades, 100000)

	run, trades, equity := BuildRecords("01RUN", "single", res, perf)

	assert.Equal(t, "01RUN", run.RunID)
	assert.Equal(t, "single", run.Mode)
	assert.Equal(t, []string{"600519"}, run.Symbols)
	assert.InDelta(t, 99848.64, run.FinalValue, 1e-9)
	assert.Equal(t, 2, run.Trades)
	assert.Equal(t, 0, run.Wins)
	assert.Equal(t, 1, run.Losses)
	assert.False(t, run.Created.IsZero())

	assert.Len(t, trades, 2)
	assert.Equal(t, 0, trades[0].Seq)
	assert.Equal(t, "BUY", trades[0].Action)
	assert.Equal(t, 1, trades[1].Seq)
	assert.InDelta(t, -151.36, trades[1].RealizedPnL, 1e-9)
	for _, tr := range trades {
		assert.Equal(t, "01RUN", tr.RunID)
	}

	assert.Len(t, equity, 2)
	assert.InDelta(t, 99971.62, equity[0].TotalValue, 1e-9)
	assert.Equal(t, "01RUN", equity[1].RunID)
}
