package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Store backed by a single sqlite3 file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) SaveRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, mode, symbols, start_date, end_date,
		 initial_capital, final_value, total_return_pct, max_drawdown_pct,
		 win_rate_pct, trades, wins, losses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Mode, strings.Join(r.Symbols, ","),
		r.Start, r.End, r.InitialCapital, r.FinalValue, r.TotalReturnPct,
		r.MaxDrawdownPct, r.WinRatePct, r.Trades, r.Wins, r.Losses,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, seq, date, action, symbol, price, volume, fee, amount, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Seq, t.Date, t.Action, t.Symbol,
		t.Price, t.Volume, t.Fee, t.Amount, t.RealizedPnL,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, date, total_value, cash, holdings_value)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Date, e.TotalValue, e.Cash, e.HoldingsValue,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
