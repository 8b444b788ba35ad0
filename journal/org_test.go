package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	run := testRun("01HX2Y3ZRUN")
	run.Mode = "portfolio"
	run.Symbols = []string{"600519", "000001"}

	out, err := FormatRunOrg(run)
	assert.NoError(t, err)

	assert.Contains(t, out, "* BACKTEST: 600519, 000001 (portfolio)")
	assert.Contains(t, out, ":RUN_ID:      01HX2Y3ZRUN")
	assert.Contains(t, out, ":START_DATE:  2024-03-01")
	assert.Contains(t, out, ":RETURN_PCT:  4.50")
	assert.Contains(t, out, ":MAX_DD_PCT:  -2.10")
	assert.Contains(t, out, "** Performance Summary")
	assert.Contains(t, out, "** Trade Distribution")
}

func TestFormatRunOrgZeroCreated(t *testing.T) {
	t.Parallel()

	run := testRun("01RUN")
	run.Created = time.Time{}

	out, err := FormatRunOrg(run)
	assert.NoError(t, err)
	// Zero Created falls back to now instead of year one.
	assert.NotContains(t, out, "0001-01-01")
}

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	rec := TradeRecord{
		RunID:       "01HX2Y3ZABCDEF",
		Seq:         1,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Action:      "SELL",
		Symbol:      "600519",
		Price:       11.0,
		Volume:      8600,
		Fee:         122.98,
		RealizedPnL: -151.36,
	}

	out := FormatTradeOrg(rec)

	assert.True(t, strings.HasPrefix(out, "** Trade 1: SELL 600519"))
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":RUN_ID: 01HX2Y3Z")
	assert.Contains(t, out, ":DATE: 2024-03-15")
	assert.Contains(t, out, ":PRICE: 11.0000")
	assert.Contains(t, out, ":VOLUME: 8600")
	assert.Contains(t, out, ":REALIZED_PNL: -151.36")
	assert.Contains(t, out, ":END:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		{RunID: "01RUN", Seq: 0, Date: day, Action: "BUY", Symbol: "600519"},
		{RunID: "01RUN", Seq: 1, Date: day, Action: "SELL", Symbol: "600519"},
	}

	out := FormatTradesOrg(trades)
	parts := strings.Split(out, "\n\n\n")
	assert.Len(t, parts, 2)

	assert.Empty(t, FormatTradesOrg(nil))
	assert.NotContains(t, FormatTradesOrg(trades[:1]), "\n\n\n")
}

func TestShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01HX2Y3Z", shortID("01HX2Y3ZABCDEF"))
	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "", shortID(""))
	assert.Equal(t, "12345678", shortID("12345678"))
}
