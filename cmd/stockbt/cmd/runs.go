package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tradelab/stockbt/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query recorded backtest runs",
	Long: `Query and display recorded runs from the SQLite journal.

Subcommands:
  list   - List all recorded runs, newest first
  show   - Show one run's summary and trade log
  org    - Export a run as an org-mode subtree

Examples:
  stockbt runs list --db ./stockbt.db
  stockbt runs show 01HX2Y3Z...
  stockbt runs org 01HX2Y3Z... > run.org`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's summary and trade log",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsOrgCmd = &cobra.Command{
	Use:   "org <run-id>",
	Short: "Export a run as an org-mode subtree",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsOrg,
}

var runsDBPath string

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsOrgCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "./stockbt.db", "path to SQLite journal DB")
}

func openStore() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-26s  %-9s  %-10s  %-10s  %10s  %8s  %6s\n",
		"RUN ID", "MODE", "START", "END", "RETURN %", "MAX DD %", "TRADES")
	for _, r := range runs {
		fmt.Printf("%-26s  %-9s  %-10s  %-10s  %10.2f  %8.2f  %6d\n",
			r.RunID, r.Mode,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
			r.TotalReturnPct, r.MaxDrawdownPct, r.Trades)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return err
	}
	trades, err := j.ListTrades(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Run ID:        %s\n", run.RunID)
	fmt.Printf("Mode:          %s\n", run.Mode)
	fmt.Printf("Symbols:       %s\n", strings.Join(run.Symbols, ", "))
	fmt.Printf("Period:        %s .. %s\n", run.Start.Format("2006-01-02"), run.End.Format("2006-01-02"))
	fmt.Printf("Start Capital: %.2f\n", run.InitialCapital)
	fmt.Printf("Final Value:   %.2f\n", run.FinalValue)
	fmt.Printf("Total Return:  %.2f%%\n", run.TotalReturnPct)
	fmt.Printf("Max Drawdown:  %.2f%%\n", run.MaxDrawdownPct)
	fmt.Printf("Win Rate:      %.2f%%\n", run.WinRatePct)
	fmt.Printf("Trades:        %d (%d wins, %d losses)\n", run.Trades, run.Wins, run.Losses)

	if len(trades) > 0 {
		fmt.Println()
		fmt.Printf("%-4s  %-10s  %-4s  %-10s  %10s  %8s  %10s  %10s\n",
			"SEQ", "DATE", "SIDE", "SYMBOL", "PRICE", "VOLUME", "FEE", "PNL")
		for _, t := range trades {
			fmt.Printf("%-4d  %-10s  %-4s  %-10s  %10.2f  %8d  %10.2f  %10.2f\n",
				t.Seq, t.Date.Format("2006-01-02"), t.Action, t.Symbol,
				t.Price, t.Volume, t.Fee, t.RealizedPnL)
		}
	}
	return nil
}

func runRunsOrg(cmd *cobra.Command, args []string) error {
	j, err := openStore()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return err
	}
	trades, err := j.ListTrades(args[0])
	if err != nil {
		return err
	}

	out, err := journal.FormatRunOrg(run)
	if err != nil {
		return err
	}
	fmt.Print(out)
	if len(trades) > 0 {
		fmt.Println()
		fmt.Println(journal.FormatTradesOrg(trades))
	}
	return nil
}
