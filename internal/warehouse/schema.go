package warehouse

import (
	"context"
	"fmt"

	"finwarehouse/internal/logging"
)

// The star schema: three dimension tables, one fact table and two
// analytical views. Statements are dialect-neutral so both backends run
// them unchanged.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
    customer_id          BIGINT PRIMARY KEY,
    first_name           VARCHAR(100),
    last_name            VARCHAR(100),
    email                VARCHAR(200),
    phone                VARCHAR(50),
    address              VARCHAR(500),
    city                 VARCHAR(100),
    state                VARCHAR(10),
    zip_code             VARCHAR(20),
    date_of_birth        DATE,
    account_opening_date DATE,
    risk_score           INTEGER
)`,

	`CREATE TABLE IF NOT EXISTS merchants (
    merchant_id       BIGINT PRIMARY KEY,
    merchant_name     VARCHAR(200),
    merchant_category VARCHAR(100),
    address           VARCHAR(500),
    city              VARCHAR(100),
    state             VARCHAR(10),
    zip_code          VARCHAR(20),
    phone             VARCHAR(50),
    email             VARCHAR(200)
)`,

	`CREATE TABLE IF NOT EXISTS accounts (
    account_id     BIGINT PRIMARY KEY,
    customer_id    BIGINT,
    account_type   VARCHAR(50),
    account_number VARCHAR(50),
    balance        DECIMAL(15,2),
    opening_date   DATE,
    status         VARCHAR(20)
)`,

	`CREATE TABLE IF NOT EXISTS transactions (
    transaction_id   BIGINT PRIMARY KEY,
    customer_id      BIGINT,
    merchant_id      BIGINT,
    account_id       BIGINT,
    amount           DECIMAL(15,2),
    transaction_type VARCHAR(50),
    category         VARCHAR(100),
    description      TEXT,
    transaction_date TIMESTAMP,
    status           VARCHAR(20)
)`,

	`CREATE OR REPLACE VIEW daily_transaction_summary AS
SELECT
    CAST(transaction_date AS DATE) AS transaction_date,
    COUNT(*) AS transaction_count,
    SUM(amount) AS total_amount,
    AVG(amount) AS avg_amount,
    COUNT(DISTINCT customer_id) AS unique_customers
FROM transactions
WHERE status = 'completed'
GROUP BY CAST(transaction_date AS DATE)`,

	`CREATE OR REPLACE VIEW customer_spending_summary AS
SELECT
    c.customer_id,
    c.first_name || ' ' || c.last_name AS customer_name,
    COUNT(t.transaction_id) AS transaction_count,
    SUM(t.amount) AS total_spent,
    AVG(t.amount) AS avg_transaction,
    c.risk_score
FROM customers c
LEFT JOIN transactions t ON c.customer_id = t.customer_id
WHERE t.status = 'completed' OR t.status IS NULL
GROUP BY c.customer_id, c.first_name, c.last_name, c.risk_score`,
}

var dropStatements = []string{
	`DROP VIEW IF EXISTS customer_spending_summary`,
	`DROP VIEW IF EXISTS daily_transaction_summary`,
	`DROP TABLE IF EXISTS transactions`,
	`DROP TABLE IF EXISTS accounts`,
	`DROP TABLE IF EXISTS merchants`,
	`DROP TABLE IF EXISTS customers`,
}

// Tables lists the schema's tables in load (dependency) order.
var Tables = []string{"customers", "merchants", "accounts", "transactions"}

// CreateSchema creates the star schema tables and views.
func CreateSchema(ctx context.Context, db DB) error {
	for _, stmt := range createStatements {
		if err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	logging.Info().
		Int("tables", len(Tables)).
		Int("views", 2).
		Msg("Schema created")
	return nil
}

// DropSchema drops the star schema views and tables.
func DropSchema(ctx context.Context, db DB) error {
	for _, stmt := range dropStatements {
		if err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	logging.Info().Msg("Schema dropped")
	return nil
}
