package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"finwarehouse/internal/logging"
	"finwarehouse/internal/server"
	"finwarehouse/internal/warehouse"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the warehouse HTTP API",
	Long: `Serve the HTTP API for warehouse setup, data generation, the SQL
runner and the analytics dashboard. When warehouse connection settings
are configured the server connects on startup; otherwise clients connect
through POST /api/warehouse/connect.

Example:
  finwarehouse serve --listen :8080 --dsn "postgres://localhost/finwarehouse"`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"listen address (default :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListen != "" {
		cfg.Serve.Listen = serveListen
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	srv := server.New(cfg)

	// Connect eagerly when the config is complete; the API can still
	// (re)connect later.
	if err := cfg.Validate(); err == nil {
		db, err := warehouse.Open(context.Background(), cfg.Warehouse)
		if err != nil {
			logging.Warn().Err(err).Msg("Startup warehouse connection failed")
		} else {
			srv.SetDB(db)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Serve.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
