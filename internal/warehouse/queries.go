package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// DefaultQueryLimit caps free-text queries that carry no LIMIT clause.
const DefaultQueryLimit = 1000

// Summary holds the headline dashboard numbers.
type Summary struct {
	TotalTransactions int64   `json:"total_transactions"`
	TotalAmount       float64 `json:"total_amount"`
	AvgTransaction    float64 `json:"avg_transaction"`
}

// Dashboard aggregates the canned analytics for the dashboard view.
type Dashboard struct {
	Summary           Summary `json:"summary"`
	DailyTrends       *Result `json:"daily_trends"`
	CategoryBreakdown *Result `json:"category_breakdown"`
	TopCustomers      *Result `json:"top_customers"`
}

// ExampleQuery is a tutorial query shown in the SQL runner.
type ExampleQuery struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Query       string `json:"query"`
}

// RunQuery executes a free-text SQL query. Statements without a LIMIT
// clause get one appended so an open-ended SELECT cannot pull the whole
// fact table across the wire.
func RunQuery(ctx context.Context, db DB, query string, limit int) (*Result, error) {
	query = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if !strings.Contains(strings.ToUpper(query), "LIMIT") {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}
	return db.Query(ctx, query)
}

// LoadDashboard runs the canned dashboard aggregates.
func LoadDashboard(ctx context.Context, db DB) (*Dashboard, error) {
	d := &Dashboard{}

	summary, err := db.Query(ctx, `
        SELECT COUNT(*) AS total_transactions,
               CAST(COALESCE(SUM(CASE WHEN status = 'completed' THEN amount ELSE 0 END), 0) AS DOUBLE PRECISION) AS total_amount,
               CAST(COALESCE(AVG(CASE WHEN status = 'completed' THEN amount END), 0) AS DOUBLE PRECISION) AS avg_transaction
        FROM transactions
    `)
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	if len(summary.Rows) == 1 {
		row := summary.Rows[0]
		d.Summary.TotalTransactions = toInt64(row[0])
		d.Summary.TotalAmount = toFloat64(row[1])
		d.Summary.AvgTransaction = toFloat64(row[2])
	}

	if d.DailyTrends, err = db.Query(ctx, `
        SELECT CAST(transaction_date AS DATE) AS date,
               COUNT(*) AS transactions,
               SUM(amount) AS volume
        FROM transactions
        WHERE status = 'completed'
        GROUP BY CAST(transaction_date AS DATE)
        ORDER BY date DESC
        LIMIT 30
    `); err != nil {
		return nil, fmt.Errorf("daily trends query failed: %w", err)
	}

	if d.CategoryBreakdown, err = db.Query(ctx, `
        SELECT category,
               COUNT(*) AS transaction_count,
               SUM(amount) AS total_amount
        FROM transactions
        WHERE status = 'completed'
        GROUP BY category
        ORDER BY total_amount DESC
    `); err != nil {
		return nil, fmt.Errorf("category breakdown query failed: %w", err)
	}

	if d.TopCustomers, err = db.Query(ctx, `
        SELECT customer_name, transaction_count, total_spent
        FROM customer_spending_summary
        ORDER BY total_spent DESC
        LIMIT 10
    `); err != nil {
		return nil, fmt.Errorf("top customers query failed: %w", err)
	}

	return d, nil
}

// ExampleQueries returns the tutorial query catalog.
func ExampleQueries() []ExampleQuery {
	return []ExampleQuery{
		{
			Title:       "Basic Transaction Query",
			Description: "Get all transactions for a specific customer",
			Query:       "SELECT * FROM transactions WHERE customer_id = 1 ORDER BY transaction_date DESC;",
		},
		{
			Title:       "Daily Transaction Summary",
			Description: "Get transaction count and total amount by day",
			Query:       "SELECT CAST(transaction_date AS DATE) AS date, COUNT(*) AS transactions, SUM(amount) AS total_amount FROM transactions GROUP BY CAST(transaction_date AS DATE) ORDER BY date DESC;",
		},
		{
			Title:       "Top Spending Customers",
			Description: "Find customers with highest total spending",
			Query:       "SELECT customer_name, total_spent, transaction_count FROM customer_spending_summary ORDER BY total_spent DESC LIMIT 10;",
		},
		{
			Title:       "Fraud Detection Query",
			Description: "Find suspicious transactions (high amount, high-risk customers)",
			Query:       "SELECT t.*, c.risk_score FROM transactions t JOIN customers c ON t.customer_id = c.customer_id WHERE t.amount > 1000 AND c.risk_score > 70 ORDER BY t.amount DESC;",
		},
		{
			Title:       "Category Analysis",
			Description: "Analyze spending by transaction category",
			Query:       "SELECT category, COUNT(*) AS transaction_count, SUM(amount) AS total_amount, AVG(amount) AS avg_amount FROM transactions WHERE status = 'completed' GROUP BY category ORDER BY total_amount DESC;",
		},
		{
			Title:       "Orphan Check",
			Description: "Verify referential integrity of the fact table (should return zero rows)",
			Query:       "SELECT t.transaction_id FROM transactions t LEFT JOIN accounts a ON t.account_id = a.account_id AND t.customer_id = a.customer_id WHERE a.account_id IS NULL;",
		},
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		var out int64
		fmt.Sscanf(n, "%d", &out)
		return out
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		var out float64
		fmt.Sscanf(n, "%f", &out)
		return out
	default:
		return 0
	}
}
