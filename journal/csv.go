package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVJournal is a write-only Journal producing three flat files, one row per
// run, trade and equity snapshot. Handy for spreadsheet digging; the SQLite
// store is the one the CLI and API read back.
type CSVJournal struct {
	runs, trades, equity *csv.Writer
	rf, tf, ef           *os.File
}

var (
	runHeader = []string{"run_id", "created", "mode", "symbols", "start", "end",
		"initial_capital", "final_value", "total_return_pct", "max_drawdown_pct",
		"win_rate_pct", "trades", "wins", "losses"}
	tradeHeader  = []string{"run_id", "seq", "date", "action", "symbol", "price", "volume", "fee", "amount", "realized_pnl"}
	equityHeader = []string{"run_id", "date", "total_value", "cash", "holdings_value"}
)

func NewCSV(runsPath, tradesPath, equityPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(tradesPath)
	if err != nil {
		rf.Close()
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		rf.Close()
		tf.Close()
		return nil, err
	}

	j := &CSVJournal{
		runs:   csv.NewWriter(rf),
		trades: csv.NewWriter(tf),
		equity: csv.NewWriter(ef),
		rf:     rf,
		tf:     tf,
		ef:     ef,
	}

	for _, w := range []struct {
		wr     *csv.Writer
		header []string
	}{
		{j.runs, runHeader},
		{j.trades, tradeHeader},
		{j.equity, equityHeader},
	} {
		if err := w.wr.Write(w.header); err != nil {
			j.Close()
			return nil, err
		}
		w.wr.Flush()
		if err := w.wr.Error(); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) SaveRun(r Run) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Mode,
		strings.Join(r.Symbols, " "),
		r.Start.Format(time.DateOnly),
		r.End.Format(time.DateOnly),
		f(r.InitialCapital),
		f(r.FinalValue),
		f(r.TotalReturnPct),
		f(r.MaxDrawdownPct),
		f(r.WinRatePct),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		strconv.Itoa(t.Seq),
		t.Date.Format(time.DateOnly),
		t.Action,
		t.Symbol,
		f(t.Price),
		strconv.FormatInt(t.Volume, 10),
		f(t.Fee),
		f(t.Amount),
		f(t.RealizedPnL),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquityRecord) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Date.Format(time.DateOnly),
		f(e.TotalValue),
		f(e.Cash),
		f(e.HoldingsValue),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.runs, j.trades, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, file := range []*os.File{j.rf, j.tf, j.ef} {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
