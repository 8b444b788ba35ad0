package cmd

import (
	"fmt"
	"time"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/config"
	"github.com/tradelab/stockbt/internal/id"
	"github.com/tradelab/stockbt/journal"
)

// applyOverrides lets command flags win over the loaded config.
func applyOverrides(cfg *config.Config, capital float64, dataDir, dbPath string) {
	if capital > 0 {
		cfg.Account.InitialCapital = capital
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if dbPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = dbPath
	}
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", end, start)
	}
	return s, e, nil
}

// openJournal builds the configured journal, or nil when journaling is off.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	default:
		return nil, nil
	}
}

// recordRun persists the result and prints the run ID.
func recordRun(cfg *config.Config, mode string, res *backtest.Result, perf backtest.Performance) error {
	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j == nil {
		return nil
	}
	defer j.Close()

	run, trades, equity := journal.BuildRecords(id.New(), mode, res, perf)
	if err := journal.Record(j, run, trades, equity); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	fmt.Printf("Run ID:        %s\n", run.RunID)
	return nil
}
