package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradelab/stockbt/config"
)

var rootCmd = &cobra.Command{
	Use:   "stockbt",
	Short: "A deterministic stock strategy backtesting engine",
	Long: `Stockbt replays daily bar history through a score-based trading
strategy against a virtual brokerage account.

It provides tools for:
  - Backtesting a single symbol or a ranked portfolio pool
  - Indicator and composite score computation over daily bars
  - Journaling runs, trades and equity curves to SQLite or CSV
  - Serving recorded runs over a JSON API`,
}

var (
	cfgFile string
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig returns the file config when --config is set, defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}
