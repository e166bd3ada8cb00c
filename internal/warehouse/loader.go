package warehouse

import (
	"context"
	"fmt"

	"finwarehouse/internal/logging"
	"finwarehouse/internal/model"
)

// defaultBatchSize is the number of rows per multi-row INSERT.
const defaultBatchSize = 1000

// Loader bulk-inserts a generated dataset into the warehouse. Tables are
// loaded in dependency order (dimensions before the fact table) and each
// table is replaced wholesale, so a load never leaves mixed runs behind.
type Loader struct {
	db        DB
	batchSize int
}

// NewLoader creates a loader for the given warehouse handle.
func NewLoader(db DB) *Loader {
	return &Loader{db: db, batchSize: defaultBatchSize}
}

// Load persists all four entity sets and returns per-table row counts.
// The dataset must be complete; partial loads are not attempted.
func (l *Loader) Load(ctx context.Context, ds *model.Dataset) (map[string]int, error) {
	if ds == nil {
		return nil, fmt.Errorf("nil dataset")
	}
	if len(ds.Customers) == 0 || len(ds.Merchants) == 0 ||
		len(ds.Accounts) == 0 || len(ds.Transactions) == 0 {
		return nil, fmt.Errorf("incomplete dataset: all four entity sets must be non-empty")
	}

	// Replace existing data. The fact table goes first so foreign
	// references never dangle mid-load.
	for i := len(Tables) - 1; i >= 0; i-- {
		if err := l.db.Exec(ctx, "DELETE FROM "+Tables[i]); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", Tables[i], err)
		}
	}

	if err := l.loadCustomers(ctx, ds.Customers); err != nil {
		return nil, err
	}
	if err := l.loadMerchants(ctx, ds.Merchants); err != nil {
		return nil, err
	}
	if err := l.loadAccounts(ctx, ds.Accounts); err != nil {
		return nil, err
	}
	if err := l.loadTransactions(ctx, ds.Transactions); err != nil {
		return nil, err
	}

	return ds.Counts(), nil
}

func (l *Loader) loadCustomers(ctx context.Context, customers []model.Customer) error {
	columns := []string{
		"customer_id", "first_name", "last_name", "email", "phone",
		"address", "city", "state", "zip_code",
		"date_of_birth", "account_opening_date", "risk_score",
	}
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{
			c.CustomerID, c.FirstName, c.LastName, c.Email, c.Phone,
			c.Address, c.City, c.State, c.ZipCode,
			c.DateOfBirth, c.AccountOpeningDate, c.RiskScore,
		})
	}
	return l.insertBatches(ctx, "customers", columns, rows)
}

func (l *Loader) loadMerchants(ctx context.Context, merchants []model.Merchant) error {
	columns := []string{
		"merchant_id", "merchant_name", "merchant_category",
		"address", "city", "state", "zip_code", "phone", "email",
	}
	rows := make([][]any, 0, len(merchants))
	for _, m := range merchants {
		rows = append(rows, []any{
			m.MerchantID, m.MerchantName, m.Category,
			m.Address, m.City, m.State, m.ZipCode, m.Phone, m.Email,
		})
	}
	return l.insertBatches(ctx, "merchants", columns, rows)
}

func (l *Loader) loadAccounts(ctx context.Context, accounts []model.Account) error {
	columns := []string{
		"account_id", "customer_id", "account_type", "account_number",
		"balance", "opening_date", "status",
	}
	rows := make([][]any, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []any{
			a.AccountID, a.CustomerID, a.AccountType, a.AccountNumber,
			a.Balance, a.OpeningDate, a.Status,
		})
	}
	return l.insertBatches(ctx, "accounts", columns, rows)
}

func (l *Loader) loadTransactions(ctx context.Context, txns []model.Transaction) error {
	columns := []string{
		"transaction_id", "customer_id", "merchant_id", "account_id",
		"amount", "transaction_type", "category", "description",
		"transaction_date", "status",
	}
	rows := make([][]any, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []any{
			t.TransactionID, t.CustomerID, t.MerchantID, t.AccountID,
			t.Amount, t.TransactionType, t.Category, t.Description,
			t.TransactionDate, t.Status,
		})
	}
	return l.insertBatches(ctx, "transactions", columns, rows)
}

// insertBatches writes rows as multi-row INSERT statements of at most
// batchSize rows each.
func (l *Loader) insertBatches(ctx context.Context, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))

		builder := l.db.Builder().Insert(table).Columns(columns...)
		for _, row := range rows[start:end] {
			builder = builder.Values(row...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		if err := l.db.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}

		logging.Debug().
			Str("table", table).
			Int("rows", end).
			Int("total", len(rows)).
			Msg("Loading data")
	}

	logging.Info().
		Str("table", table).
		Int("rows", len(rows)).
		Msg("Table loaded")
	return nil
}
