package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradelab/stockbt/journal"
	"github.com/tradelab/stockbt/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded runs over a JSON API",
	Long: `Start an HTTP server exposing the journal database.

Endpoints:
  GET /healthz
  GET /api/runs
  GET /api/runs/:id
  GET /api/runs/:id/trades
  GET /api/runs/:id/equity

Example:
  stockbt serve --db ./stockbt.db --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr   string
	serveDBPath string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().StringVarP(&serveDBPath, "db", "d", "", "path to SQLite journal DB (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDBPath != "" {
		cfg.Journal.DBPath = serveDBPath
	}

	store, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(store, cfg.Server.Addr, slog.Default())
	return srv.Start(ctx)
}
