package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/market"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio <symbol>...",
	Short: "Backtest a ranked portfolio pool",
	Long: `Replay a candidate pool with a capped number of concurrent positions.
Each day candidates are ranked by score, then volume ratio, and free cash is
split over the remaining open slots.

Example:
  stockbt portfolio 600519 000001 300750 --max-positions 3 \
    --data ./data --start 2023-01-01 --end 2024-01-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPortfolio,
}

var (
	pfStart        string
	pfEnd          string
	pfCapital      float64
	pfDataDir      string
	pfDBPath       string
	pfMaxPositions int
)

func init() {
	rootCmd.AddCommand(portfolioCmd)

	portfolioCmd.Flags().StringVarP(&pfStart, "start", "s", "", "start date YYYY-MM-DD (required)")
	portfolioCmd.Flags().StringVarP(&pfEnd, "end", "e", "", "end date YYYY-MM-DD (required)")
	portfolioCmd.Flags().Float64VarP(&pfCapital, "capital", "b", 0, "starting capital (default from config)")
	portfolioCmd.Flags().StringVarP(&pfDataDir, "data", "d", "", "daily bar CSV directory (default from config)")
	portfolioCmd.Flags().StringVar(&pfDBPath, "db", "", "SQLite journal path (overrides config)")
	portfolioCmd.Flags().IntVarP(&pfMaxPositions, "max-positions", "m", 0, "max concurrent positions (default from config)")

	portfolioCmd.MarkFlagRequired("start")
	portfolioCmd.MarkFlagRequired("end")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cfg, pfCapital, pfDataDir, pfDBPath)
	if pfMaxPositions > 0 {
		cfg.Strategy.MaxPositions = pfMaxPositions
	}

	start, end, err := parseRange(pfStart, pfEnd)
	if err != nil {
		return err
	}

	eng := backtest.NewEngine(
		market.NewDirProvider(cfg.Data.Dir),
		start, end, cfg.Account.InitialCapital,
		backtest.WithPolicy(cfg.Policy()),
		backtest.WithFees(cfg.LedgerFees()),
	)

	res, err := eng.RunPortfolio(args, cfg.Strategy.MaxPositions)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	perf := backtest.Analyze(res.Equity, res.Trades, cfg.Account.InitialCapital)
	backtest.WriteReport(os.Stdout, &res, perf)

	return recordRun(cfg, "portfolio", &res, perf)
}
