package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finwarehouse/internal/logging"
	"finwarehouse/internal/warehouse"
)

var setupDropExisting bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the warehouse schema and analytics views",
	Long: `Create the customers, merchants, accounts and transactions tables
plus the daily and per-customer summary views in the target warehouse.

Example:
  finwarehouse setup --dsn "postgres://localhost/finwarehouse"
  finwarehouse setup --driver snowflake --drop-existing`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupDropExisting, "drop-existing", false,
		"drop existing tables and views before creating")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer db.Close()

	if setupDropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := warehouse.DropSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	logging.Info().Msg("Creating schema")
	if err := warehouse.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	cmd.Printf("Schema ready in %s (%s)\n", db.Database(), db.Driver())
	return nil
}
