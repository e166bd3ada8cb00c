package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finwarehouse/internal/warehouse"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a SQL query against the warehouse",
	Long: `Run a free-text SQL query against the warehouse and print the rows
as a table. Queries without a LIMIT clause get one appended.

Example:
  finwarehouse query "SELECT * FROM customer_spending_summary" --limit 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", warehouse.DefaultQueryLimit,
		"maximum rows to return when the query has no LIMIT")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer db.Close()

	result, err := warehouse.RunQuery(ctx, db, strings.Join(args, " "), queryLimit)
	if err != nil {
		return err
	}

	renderResult(cmd.OutOrStdout(), result)
	cmd.Printf("\n%d rows\n", len(result.Rows))
	return nil
}
