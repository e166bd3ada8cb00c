package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finwarehouse/internal/warehouse"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the analytics dashboard",
	Long: `Run the canned analytics queries and print transaction totals, daily
trends, spending by category and the top customers by spend.`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := warehouse.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer db.Close()

	dash, err := warehouse.LoadDashboard(ctx, db)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	cmd.Println(titleColor("Summary"))
	cmd.Printf("  Completed transactions: %d\n", dash.Summary.TotalTransactions)
	cmd.Printf("  Total amount:           %.2f\n", dash.Summary.TotalAmount)
	cmd.Printf("  Average transaction:    %.2f\n", dash.Summary.AvgTransaction)
	cmd.Println()

	sections := []struct {
		title  string
		result *warehouse.Result
	}{
		{"Daily Trends (last 30 days)", dash.DailyTrends},
		{"Spending by Category", dash.CategoryBreakdown},
		{"Top Customers", dash.TopCustomers},
	}
	for _, sec := range sections {
		cmd.Println(titleColor(sec.title))
		renderResult(out, sec.result)
		cmd.Println()
	}
	return nil
}
