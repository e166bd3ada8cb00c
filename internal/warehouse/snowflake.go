package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/snowflakedb/gosnowflake"

	"finwarehouse/internal/config"
	"finwarehouse/internal/logging"
)

// snowflakeDB is the database/sql-backed Snowflake warehouse handle.
type snowflakeDB struct {
	db       *sql.DB
	database string
}

// snowflakeDSN builds a gosnowflake connection string from config fields.
func snowflakeDSN(cfg config.WarehouseConfig) string {
	dsn := fmt.Sprintf("%s:%s@%s/%s/%s",
		cfg.Username, cfg.Password, cfg.Account, cfg.Database, cfg.Schema)
	sep := "?"
	if cfg.Warehouse != "" {
		dsn += sep + "warehouse=" + cfg.Warehouse
		sep = "&"
	}
	if cfg.Role != "" {
		dsn += sep + "role=" + cfg.Role
	}
	return dsn
}

// openSnowflake establishes a connection to a Snowflake warehouse.
func openSnowflake(ctx context.Context, cfg config.WarehouseConfig) (DB, error) {
	db, err := sql.Open("snowflake", snowflakeDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping snowflake: %w", err)
	}

	logging.Info().
		Str("account", cfg.Account).
		Str("database", cfg.Database).
		Str("warehouse", cfg.Warehouse).
		Msg("Connected to warehouse")

	return &snowflakeDB{db: db, database: cfg.Database}, nil
}

func (s *snowflakeDB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *snowflakeDB) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Drivers hand back []byte for text columns; stringify so the
		// JSON and table renderings stay readable.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

func (s *snowflakeDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *snowflakeDB) Close() {
	if err := s.db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close warehouse connection")
	}
}

func (s *snowflakeDB) Driver() string {
	return "snowflake"
}

func (s *snowflakeDB) Database() string {
	return s.database
}

func (s *snowflakeDB) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}
