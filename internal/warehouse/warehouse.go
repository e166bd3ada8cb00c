// Package warehouse provides connection management, schema setup and bulk
// loading for the target warehouse database. Two backends are supported:
// PostgreSQL (pgx) and Snowflake (gosnowflake via database/sql).
package warehouse

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"finwarehouse/internal/config"
)

// Result holds the rows of a query in a driver-neutral shape.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"data"`
}

// DB is the warehouse handle shared by the loader, the dashboard queries
// and the free-text SQL runner.
type DB interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query runs a statement and collects all rows.
	Query(ctx context.Context, sql string, args ...any) (*Result, error)

	// Ping verifies the connection.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close()

	// Driver returns the backend name ("postgres" or "snowflake").
	Driver() string

	// Database returns the connected database name.
	Database() string

	// Builder returns a statement builder with the backend's
	// placeholder format.
	Builder() squirrel.StatementBuilderType
}

// Open connects to the warehouse described by cfg.
func Open(ctx context.Context, cfg config.WarehouseConfig) (DB, error) {
	switch cfg.Driver {
	case "postgres":
		return openPostgres(ctx, cfg.DSN)
	case "snowflake":
		return openSnowflake(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown warehouse driver: %s", cfg.Driver)
	}
}
