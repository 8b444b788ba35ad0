package journal

import (
	"database/sql"
	"fmt"
	"strings"
)

const runColumns = `run_id, created, mode, symbols, start_date, end_date,
	initial_capital, final_value, total_return_pct, max_drawdown_pct,
	win_rate_pct, trades, wins, losses`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var symbols string
	err := row.Scan(
		&r.RunID, &r.Created, &r.Mode, &symbols, &r.Start, &r.End,
		&r.InitialCapital, &r.FinalValue, &r.TotalReturnPct, &r.MaxDrawdownPct,
		&r.WinRatePct, &r.Trades, &r.Wins, &r.Losses,
	)
	if err != nil {
		return Run{}, err
	}
	if symbols != "" {
		r.Symbols = strings.Split(symbols, ",")
	}
	return r, nil
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns all run summaries, newest first. ULIDs sort by creation
// time so ordering by run_id is chronological.
func (j *SQLite) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTrades returns a run's trade log in execution order.
func (j *SQLite) ListTrades(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, seq, date, action, symbol, price, volume, fee, amount, realized_pnl
		FROM trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.RunID, &t.Seq, &t.Date, &t.Action, &t.Symbol,
			&t.Price, &t.Volume, &t.Fee, &t.Amount, &t.RealizedPnL,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquity returns a run's equity history ascending by date.
func (j *SQLite) ListEquity(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, total_value, cash, holdings_value
		FROM equity
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var e EquityRecord
		if err := rows.Scan(&e.RunID, &e.Date, &e.TotalValue, &e.Cash, &e.HoldingsValue); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
