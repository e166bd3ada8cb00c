//go:build integration
// +build integration

// Integration tests for the warehouse layer.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.
// Set FINWAREHOUSE_TEST_CONN environment variable to override connection string.

package warehouse_test

import (
	"context"
	"testing"
	"time"

	"finwarehouse/internal/config"
	"finwarehouse/internal/datagen"
	"finwarehouse/internal/testutil"
	"finwarehouse/internal/warehouse"
)

func TestWarehouseIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	dbName, testConnStr := testutil.CreateTestDB(t, baseConnStr)
	t.Cleanup(func() { testutil.CleanupTestDB(t, baseConnStr, dbName) })

	ctx := context.Background()

	db, err := warehouse.Open(ctx, config.WarehouseConfig{
		Driver: "postgres",
		DSN:    testConnStr,
	})
	if err != nil {
		t.Fatalf("Failed to open warehouse: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	t.Run("CreateSchema", func(t *testing.T) {
		if err := warehouse.CreateSchema(ctx, db); err != nil {
			t.Fatalf("CreateSchema failed: %v", err)
		}
	})

	spec := datagen.Spec{
		Customers:              20,
		Merchants:              10,
		Transactions:           200,
		AccountsPerCustomerMin: 1,
		AccountsPerCustomerMax: 3,
		WindowStart:            time.Now().UTC().AddDate(0, -6, 0),
		WindowEnd:              time.Now().UTC(),
	}

	gen := datagen.NewGeneratorWithSeed(42)
	ds, err := gen.Dataset(spec)
	if err != nil {
		t.Fatalf("Dataset generation failed: %v", err)
	}

	t.Run("Load", func(t *testing.T) {
		counts, err := warehouse.NewLoader(db).Load(ctx, ds)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if counts["transactions"] != 200 {
			t.Errorf("Expected 200 transactions loaded, got %d", counts["transactions"])
		}
	})

	t.Run("ReferentialIntegrity", func(t *testing.T) {
		checks := map[string]string{
			"merchant": `SELECT COUNT(*) FROM transactions t
				LEFT JOIN merchants m ON t.merchant_id = m.merchant_id
				WHERE m.merchant_id IS NULL`,
			"account owner": `SELECT COUNT(*) FROM transactions t
				JOIN accounts a ON t.account_id = a.account_id
				WHERE a.customer_id <> t.customer_id`,
		}
		for name, q := range checks {
			result, err := db.Query(ctx, q)
			if err != nil {
				t.Fatalf("Check %q failed: %v", name, err)
			}
			if len(result.Rows) != 1 {
				t.Fatalf("Check %q returned %d rows", name, len(result.Rows))
			}
			if n, ok := result.Rows[0][0].(int64); !ok || n != 0 {
				t.Errorf("Check %q found %v violations", name, result.Rows[0][0])
			}
		}
	})

	t.Run("ReloadReplaces", func(t *testing.T) {
		if _, err := warehouse.NewLoader(db).Load(ctx, ds); err != nil {
			t.Fatalf("Reload failed: %v", err)
		}
		result, err := db.Query(ctx, "SELECT COUNT(*) FROM customers")
		if err != nil {
			t.Fatalf("Count query failed: %v", err)
		}
		if n, _ := result.Rows[0][0].(int64); n != 20 {
			t.Errorf("Expected 20 customers after reload, got %d", n)
		}
	})

	t.Run("RunQuery", func(t *testing.T) {
		result, err := warehouse.RunQuery(ctx, db, "SELECT * FROM transactions", 50)
		if err != nil {
			t.Fatalf("RunQuery failed: %v", err)
		}
		if len(result.Rows) != 50 {
			t.Errorf("Expected 50 rows with applied limit, got %d", len(result.Rows))
		}
	})

	t.Run("Dashboard", func(t *testing.T) {
		dash, err := warehouse.LoadDashboard(ctx, db)
		if err != nil {
			t.Fatalf("LoadDashboard failed: %v", err)
		}
		if dash.Summary.TotalTransactions == 0 {
			t.Error("Dashboard summary reports zero transactions")
		}
		if len(dash.CategoryBreakdown.Rows) == 0 {
			t.Error("Dashboard category breakdown is empty")
		}
	})

	t.Run("ExampleQueriesRun", func(t *testing.T) {
		for _, ex := range warehouse.ExampleQueries() {
			if _, err := warehouse.RunQuery(ctx, db, ex.Query, 100); err != nil {
				t.Errorf("Example %q failed: %v", ex.Title, err)
			}
		}
	})

	t.Run("DropSchema", func(t *testing.T) {
		if err := warehouse.DropSchema(ctx, db); err != nil {
			t.Fatalf("DropSchema failed: %v", err)
		}
	})
}
