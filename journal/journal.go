// Package journal persists backtest runs so they can be compared and
// inspected after the fact. A run is a summary row plus its full trade log
// and daily equity history, keyed by a ULID run ID.
package journal

import (
	"time"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/ledger"
)

// Run is the persisted summary of one backtest.
type Run struct {
	RunID   string
	Created time.Time
	Mode    string // "single" or "portfolio"
	Symbols []string

	Start time.Time
	End   time.Time

	InitialCapital float64
	FinalValue     float64
	TotalReturnPct float64
	MaxDrawdownPct float64
	WinRatePct     float64

	Trades int
	Wins   int
	Losses int
}

// TradeRecord is one ledger trade tied to its run.
type TradeRecord struct {
	RunID       string
	Seq         int // position in the run's trade log, from 0
	Date        time.Time
	Action      string
	Symbol      string
	Price       float64
	Volume      int64
	Fee         float64
	Amount      float64
	RealizedPnL float64
}

// EquityRecord is one daily valuation tied to its run.
type EquityRecord struct {
	RunID         string
	Date          time.Time
	TotalValue    float64
	Cash          float64
	HoldingsValue float64
}

// Journal records one run. Implementations append; nothing is ever updated.
type Journal interface {
	SaveRun(Run) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// Store extends Journal with the read side used by the report CLI and the
// HTTP API.
type Store interface {
	Journal
	GetRun(runID string) (Run, error)
	ListRuns() ([]Run, error)
	ListTrades(runID string) ([]TradeRecord, error)
	ListEquity(runID string) ([]EquityRecord, error)
}

// BuildRecords flattens an engine result into journal rows.
func BuildRecords(runID, mode string, res *backtest.Result, perf backtest.Performance) (Run, []TradeRecord, []EquityRecord) {
	run := Run{
		RunID:          runID,
		Created:        time.Now().UTC(),
		Mode:           mode,
		Symbols:        res.Symbols,
		Start:          res.Start,
		End:            res.End,
		InitialCapital: perf.InitialCapital,
		FinalValue:     perf.FinalValue,
		TotalReturnPct: perf.TotalReturnPct,
		MaxDrawdownPct: perf.MaxDrawdownPct,
		WinRatePct:     perf.WinRatePct,
		Trades:         res.TradeCount,
		Wins:           perf.Wins,
		Losses:         perf.Losses,
	}

	trades := make([]TradeRecord, len(res.Trades))
	for i, t := range res.Trades {
		trades[i] = FromLedgerTrade(runID, i, t)
	}

	equity := make([]EquityRecord, len(res.Equity))
	for i, e := range res.Equity {
		equity[i] = EquityRecord{
			RunID:         runID,
			Date:          e.Date,
			TotalValue:    e.TotalValue,
			Cash:          e.Cash,
			HoldingsValue: e.HoldingsValue,
		}
	}

	return run, trades, equity
}

// FromLedgerTrade converts one ledger trade for ad-hoc recording outside a
// full result flatten.
func FromLedgerTrade(runID string, seq int, t ledger.Trade) TradeRecord {
	return TradeRecord{
		RunID:       runID,
		Seq:         seq,
		Date:        t.Date,
		Action:      string(t.Action),
		Symbol:      t.Symbol,
		Price:       t.Price,
		Volume:      t.Volume,
		Fee:         t.Fee,
		Amount:      t.Amount,
		RealizedPnL: t.RealizedPnL,
	}
}

// Record writes a full run through any Journal in one call.
func Record(j Journal, run Run, trades []TradeRecord, equity []EquityRecord) error {
	if err := j.SaveRun(run); err != nil {
		return err
	}
	for _, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	for _, e := range equity {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}
