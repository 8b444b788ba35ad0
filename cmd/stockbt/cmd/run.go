package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/market"
)

var runCmd = &cobra.Command{
	Use:   "run <symbol>",
	Short: "Backtest a single symbol",
	Long: `Replay one symbol's daily history through the scoring strategy.

Example:
  stockbt run 600519 --data ./data --start 2023-01-01 --end 2024-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runSingle,
}

var (
	runStart   string
	runEnd     string
	runCapital float64
	runDataDir string
	runDBPath  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runStart, "start", "s", "", "start date YYYY-MM-DD (required)")
	runCmd.Flags().StringVarP(&runEnd, "end", "e", "", "end date YYYY-MM-DD (required)")
	runCmd.Flags().Float64VarP(&runCapital, "capital", "b", 0, "starting capital (default from config)")
	runCmd.Flags().StringVarP(&runDataDir, "data", "d", "", "daily bar CSV directory (default from config)")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "SQLite journal path (overrides config)")

	runCmd.MarkFlagRequired("start")
	runCmd.MarkFlagRequired("end")
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, runCapital, runDataDir, runDBPath)

	start, end, err := parseRange(runStart, runEnd)
	if err != nil {
		return err
	}

	eng := backtest.NewEngine(
		market.NewDirProvider(cfg.Data.Dir),
		start, end, cfg.Account.InitialCapital,
		backtest.WithPolicy(cfg.Policy()),
		backtest.WithFees(cfg.LedgerFees()),
	)

	res, err := eng.Run(args[0])
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	perf := backtest.Analyze(res.Equity, res.Trades, cfg.Account.InitialCapital)
	backtest.WriteReport(os.Stdout, &res, perf)

	return recordRun(cfg, "single", &res, perf)
}
