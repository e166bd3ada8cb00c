package datagen

import (
	"fmt"
	"math"
	"time"

	"finwarehouse/internal/logging"
	"finwarehouse/internal/model"
)

// Spec describes one generation run.
type Spec struct {
	// Customers, Merchants and Transactions are the requested counts.
	Customers    int
	Merchants    int
	Transactions int

	// AccountsPerCustomerMin/Max bound how many accounts each customer
	// owns. Every customer gets at least one.
	AccountsPerCustomerMin int
	AccountsPerCustomerMax int

	// WindowStart and WindowEnd bound transaction timestamps.
	WindowStart time.Time
	WindowEnd   time.Time
}

// DefaultSpec returns a Spec with the standard tutorial sizes and a
// one-year historical window ending now.
func DefaultSpec() Spec {
	now := time.Now().UTC()
	return Spec{
		Customers:              100,
		Merchants:              50,
		Transactions:           1000,
		AccountsPerCustomerMin: 1,
		AccountsPerCustomerMax: 3,
		WindowStart:            now.AddDate(-1, 0, 0),
		WindowEnd:              now,
	}
}

// Transaction status split: 95% completed, 3% pending, 2% failed.
var (
	statuses      = []string{model.StatusCompleted, model.StatusPending, model.StatusFailed}
	statusWeights = []int{95, 3, 2}
)

// Generator produces entity sets. Each method is a pure function from its
// parameters (and prior sets) to a new set; the only state is the random
// source, which advances deterministically for a fixed seed.
type Generator struct {
	faker *Faker

	// ref anchors demographic date ranges. Truncated to the day so two
	// runs with the same seed produce identical datasets.
	ref time.Time
}

// NewGenerator creates a generator with a time-based seed.
func NewGenerator() *Generator {
	return &Generator{
		faker: NewFaker(),
		ref:   time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// NewGeneratorWithSeed creates a generator whose output is fully
// reproducible for the given seed.
func NewGeneratorWithSeed(seed uint64) *Generator {
	return &Generator{
		faker: NewFakerWithSeed(seed),
		ref:   time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// Customers produces exactly n customers with identifiers 1..n.
// Risk scores skew low: 90% are drawn uniformly from [0,40] and 10% from
// [41,100], so downstream fraud-detection queries have a meaningful tail.
func (g *Generator) Customers(n int) ([]model.Customer, error) {
	if err := checkCount("customers", n); err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, n)
	for i := 1; i <= n; i++ {
		risk := g.faker.Int(0, 40)
		if g.faker.Int(1, 100) > 90 {
			risk = g.faker.Int(41, 100)
		}

		customers = append(customers, model.Customer{
			CustomerID:         int64(i),
			FirstName:          g.faker.FirstName(),
			LastName:           g.faker.LastName(),
			Email:              g.faker.Email(),
			Phone:              g.faker.Phone(),
			Address:            g.faker.Street(),
			City:               g.faker.City(),
			State:              g.faker.State(),
			ZipCode:            g.faker.Zip(),
			DateOfBirth:        g.faker.DateRange(g.ref.AddDate(-80, 0, 0), g.ref.AddDate(-18, 0, 0)),
			AccountOpeningDate: g.faker.DateRange(g.ref.AddDate(-5, 0, 0), g.ref),
			RiskScore:          risk,
		})
	}
	return customers, nil
}

// Merchants produces exactly n merchants with identifiers 1..n and a
// category drawn uniformly from the fixed enumeration.
func (g *Generator) Merchants(n int) ([]model.Merchant, error) {
	if err := checkCount("merchants", n); err != nil {
		return nil, err
	}

	merchants := make([]model.Merchant, 0, n)
	for i := 1; i <= n; i++ {
		merchants = append(merchants, model.Merchant{
			MerchantID:   int64(i),
			MerchantName: g.faker.Company(),
			Category:     Choose(g.faker, model.MerchantCategories),
			Address:      g.faker.Street(),
			City:         g.faker.City(),
			State:        g.faker.State(),
			ZipCode:      g.faker.Zip(),
			Phone:        g.faker.Phone(),
			Email:        g.faker.Email(),
		})
	}
	return merchants, nil
}

// Accounts produces between minPer and maxPer accounts for every customer
// in the supplied set. References are valid by construction: the generator
// iterates the given customers rather than sampling identifiers. Account
// identifiers are freshly allocated 1..len(result). The opening date is
// the owning customer's account-opening date.
func (g *Generator) Accounts(customers []model.Customer, minPer, maxPer int) ([]model.Account, error) {
	if len(customers) == 0 {
		return nil, fmt.Errorf("accounts: %w", ErrEmptyCustomerSet)
	}
	if minPer < 1 || maxPer < minPer {
		return nil, fmt.Errorf("accounts: %w: per-customer range [%d,%d]", ErrInvalidCount, minPer, maxPer)
	}
	if len(customers)*maxPer > MaxCount {
		return nil, fmt.Errorf("accounts: %w: up to %d accounts (limit %d)",
			ErrInvalidCount, len(customers)*maxPer, MaxCount)
	}

	accounts := make([]model.Account, 0, len(customers)*minPer)
	var nextID int64 = 1
	for _, c := range customers {
		slots := g.faker.Int(minPer, maxPer)
		for s := 0; s < slots; s++ {
			accounts = append(accounts, model.Account{
				AccountID:     nextID,
				CustomerID:    c.CustomerID,
				AccountType:   Choose(g.faker, model.AccountTypes),
				AccountNumber: g.faker.Digits(12),
				Balance:       round2(g.faker.Float64(100, 50000)),
				OpeningDate:   c.AccountOpeningDate,
				Status:        "active",
			})
			nextID++
		}
	}
	return accounts, nil
}

// Transactions produces exactly n transactions over the supplied sets.
//
// The customer is sampled weighted by risk score (weight 10 + score), so
// high-risk customers transact more often and flagged-transaction queries
// return rows. The account is then sampled from that customer's own
// accounts, which is what keeps the fact table consistent: independent
// sampling of account identifiers would silently produce accounts owned
// by someone else. The merchant is independent and uniform.
//
// Timestamps are uniform within the window, clamped so a transaction never
// predates its account's opening date when the opening date falls inside
// the window.
func (g *Generator) Transactions(
	customers []model.Customer,
	merchants []model.Merchant,
	accounts []model.Account,
	n int,
	windowStart, windowEnd time.Time,
) ([]model.Transaction, error) {
	if err := checkCount("transactions", n); err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("transactions: customers: %w", ErrEmptyReferenceSet)
	}
	if len(merchants) == 0 {
		return nil, fmt.Errorf("transactions: merchants: %w", ErrEmptyReferenceSet)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("transactions: accounts: %w", ErrEmptyReferenceSet)
	}
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("transactions: %w: window [%s, %s]",
			ErrInvalidCount, windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
	}
	if err := checkWeights("status", len(statuses), len(statusWeights), statusWeights); err != nil {
		return nil, err
	}

	// Index accounts by owner. Customers without an account cannot have
	// transactions, so sampling is restricted to funded customers.
	byOwner := make(map[int64][]int, len(customers))
	for i, a := range accounts {
		byOwner[a.CustomerID] = append(byOwner[a.CustomerID], i)
	}

	funded := make([]model.Customer, 0, len(customers))
	weights := make([]int, 0, len(customers))
	for _, c := range customers {
		if len(byOwner[c.CustomerID]) == 0 {
			continue
		}
		funded = append(funded, c)
		weights = append(weights, 10+c.RiskScore)
	}
	if len(funded) == 0 {
		return nil, fmt.Errorf("transactions: no account resolves to a supplied customer: %w", ErrEmptyReferenceSet)
	}

	txns := make([]model.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		customer := ChooseWeighted(g.faker, funded, weights)
		account := accounts[Choose(g.faker, byOwner[customer.CustomerID])]
		merchant := Choose(g.faker, merchants)
		txType := Choose(g.faker, model.TransactionTypes)

		start := windowStart
		if account.OpeningDate.After(start) && account.OpeningDate.Before(windowEnd) {
			start = account.OpeningDate
		}

		txns = append(txns, model.Transaction{
			TransactionID:   int64(i),
			CustomerID:      customer.CustomerID,
			MerchantID:      merchant.MerchantID,
			AccountID:       account.AccountID,
			Amount:          g.amountFor(txType),
			TransactionType: txType,
			Category:        Choose(g.faker, model.TransactionCategories),
			Description:     fmt.Sprintf("%s - %s", merchant.MerchantName, g.faker.Sentence(6)),
			TransactionDate: g.faker.DateRange(start, windowEnd),
			Status:          ChooseWeighted(g.faker, statuses, statusWeights),
		})
	}
	return txns, nil
}

// amountFor samples a signed amount from the per-type distribution:
// purchases are small debits charged as positive amounts, payments and
// deposits are larger positives, withdrawals are negative, and transfers
// are larger magnitude with either sign.
func (g *Generator) amountFor(txType string) float64 {
	var amount float64
	switch txType {
	case model.TypePurchase:
		amount = g.faker.Float64(5, 500)
	case model.TypePayment:
		amount = g.faker.Float64(20, 2000)
	case model.TypeDeposit:
		amount = g.faker.Float64(50, 5000)
	case model.TypeWithdrawal:
		amount = -g.faker.Float64(20, 1000)
	case model.TypeTransfer:
		amount = g.faker.Float64(100, 5000)
		if g.faker.Int(0, 1) == 1 {
			amount = -amount
		}
	default:
		amount = g.faker.Float64(5, 2000)
	}
	return round2(amount)
}

// Dataset runs the full phase-ordered pipeline: roots (customers,
// merchants), then accounts, then transactions. It either returns all
// four consistent sets or fails before any of them reaches a loader.
func (g *Generator) Dataset(spec Spec) (*model.Dataset, error) {
	// Validate every count up front so a run never does partial work.
	if err := checkCount("customers", spec.Customers); err != nil {
		return nil, err
	}
	if err := checkCount("merchants", spec.Merchants); err != nil {
		return nil, err
	}
	if err := checkCount("transactions", spec.Transactions); err != nil {
		return nil, err
	}

	customers, err := g.Customers(spec.Customers)
	if err != nil {
		return nil, err
	}
	merchants, err := g.Merchants(spec.Merchants)
	if err != nil {
		return nil, err
	}
	accounts, err := g.Accounts(customers, spec.AccountsPerCustomerMin, spec.AccountsPerCustomerMax)
	if err != nil {
		return nil, err
	}
	txns, err := g.Transactions(customers, merchants, accounts,
		spec.Transactions, spec.WindowStart, spec.WindowEnd)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Int("customers", len(customers)).
		Int("merchants", len(merchants)).
		Int("accounts", len(accounts)).
		Int("transactions", len(txns)).
		Msg("Generated dataset")

	return &model.Dataset{
		Customers:    customers,
		Merchants:    merchants,
		Accounts:     accounts,
		Transactions: txns,
	}, nil
}

// round2 rounds to currency scale (two decimal places).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
