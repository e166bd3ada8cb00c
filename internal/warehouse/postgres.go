package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"finwarehouse/internal/logging"
)

// postgresDB is the pgx-backed warehouse handle.
type postgresDB struct {
	pool     *pgxpool.Pool
	database string
}

// openPostgres establishes a connection pool to a PostgreSQL warehouse.
func openPostgres(ctx context.Context, dsn string) (DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	logging.Debug().
		Str("host", cfg.ConnConfig.Host).
		Uint16("port", cfg.ConnConfig.Port).
		Str("database", cfg.ConnConfig.Database).
		Msg("Connecting to warehouse")

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	logging.Info().
		Str("host", cfg.ConnConfig.Host).
		Str("database", cfg.ConnConfig.Database).
		Msg("Connected to warehouse")

	return &postgresDB{pool: pool, database: cfg.ConnConfig.Database}, nil
}

func (p *postgresDB) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := p.pool.Exec(ctx, sql, args...)
	return err
}

func (p *postgresDB) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &Result{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

func (p *postgresDB) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *postgresDB) Close() {
	p.pool.Close()
}

func (p *postgresDB) Driver() string {
	return "postgres"
}

func (p *postgresDB) Database() string {
	return p.database
}

func (p *postgresDB) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
