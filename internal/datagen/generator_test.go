package datagen

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"finwarehouse/internal/model"
)

func testWindow() (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	return end.AddDate(-1, 0, 0), end
}

func TestCustomersInvalidCount(t *testing.T) {
	g := NewGenerator()

	for _, n := range []int{0, -1, -100, MaxCount + 1} {
		_, err := g.Customers(n)
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Customers(%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

func TestCustomersIdentifiers(t *testing.T) {
	g := NewGenerator()
	customers, err := g.Customers(50)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}
	if len(customers) != 50 {
		t.Fatalf("Expected 50 customers, got %d", len(customers))
	}
	for i, c := range customers {
		if c.CustomerID != int64(i+1) {
			t.Errorf("Customer %d has identifier %d, want %d", i, c.CustomerID, i+1)
		}
	}
}

func TestCustomersRiskScoreBounds(t *testing.T) {
	g := NewGenerator()
	customers, err := g.Customers(500)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}

	low := 0
	for _, c := range customers {
		if c.RiskScore < 0 || c.RiskScore > 100 {
			t.Errorf("Risk score %d out of [0,100]", c.RiskScore)
		}
		if c.RiskScore <= 40 {
			low++
		}
	}

	// 90% of scores are sampled from [0,40]; allow statistical slack.
	if float64(low)/500 < 0.80 {
		t.Errorf("Expected risk scores to skew low, got %d/500 in [0,40]", low)
	}
}

func TestMerchantsInvalidCount(t *testing.T) {
	g := NewGenerator()
	_, err := g.Merchants(0)
	if !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Merchants(0) error = %v, want ErrInvalidCount", err)
	}
}

func TestMerchantsCategoryEnumeration(t *testing.T) {
	g := NewGenerator()
	merchants, err := g.Merchants(100)
	if err != nil {
		t.Fatalf("Merchants failed: %v", err)
	}

	valid := make(map[string]bool)
	for _, c := range model.MerchantCategories {
		valid[c] = true
	}
	for _, m := range merchants {
		if !valid[m.Category] {
			t.Errorf("Merchant category %q not in enumeration", m.Category)
		}
	}
}

func TestAccountsEmptyCustomerSet(t *testing.T) {
	g := NewGenerator()
	_, err := g.Accounts(nil, 1, 3)
	if !errors.Is(err, ErrEmptyCustomerSet) {
		t.Errorf("Accounts(nil) error = %v, want ErrEmptyCustomerSet", err)
	}
}

func TestAccountsInvalidPerCustomerRange(t *testing.T) {
	g := NewGenerator()
	customers, err := g.Customers(5)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}

	tests := []struct{ min, max int }{
		{0, 3},
		{2, 1},
		{-1, -1},
	}
	for _, tt := range tests {
		_, err := g.Accounts(customers, tt.min, tt.max)
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Accounts range [%d,%d] error = %v, want ErrInvalidCount", tt.min, tt.max, err)
		}
	}
}

func TestAccountsReferentialIntegrity(t *testing.T) {
	g := NewGenerator()
	customers, err := g.Customers(100)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}
	accounts, err := g.Accounts(customers, 1, 3)
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}

	known := make(map[int64]bool, len(customers))
	for _, c := range customers {
		known[c.CustomerID] = true
	}

	perCustomer := make(map[int64]int)
	seen := make(map[int64]bool)
	for _, a := range accounts {
		if !known[a.CustomerID] {
			t.Errorf("Account %d references unknown customer %d", a.AccountID, a.CustomerID)
		}
		if seen[a.AccountID] {
			t.Errorf("Duplicate account identifier %d", a.AccountID)
		}
		seen[a.AccountID] = true
		perCustomer[a.CustomerID]++
	}

	// Every customer owns between 1 and 3 accounts.
	for _, c := range customers {
		n := perCustomer[c.CustomerID]
		if n < 1 || n > 3 {
			t.Errorf("Customer %d owns %d accounts, want 1..3", c.CustomerID, n)
		}
	}
}

func TestTransactionsEmptyReferenceSets(t *testing.T) {
	g := NewGenerator()
	customers, _ := g.Customers(5)
	merchants, _ := g.Merchants(3)
	accounts, _ := g.Accounts(customers, 1, 2)
	start, end := testWindow()

	tests := []struct {
		name      string
		customers []model.Customer
		merchants []model.Merchant
		accounts  []model.Account
	}{
		{"no customers", nil, merchants, accounts},
		{"no merchants", customers, nil, accounts},
		{"no accounts", customers, merchants, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Transactions(tt.customers, tt.merchants, tt.accounts, 10, start, end)
			if !errors.Is(err, ErrEmptyReferenceSet) {
				t.Errorf("Expected ErrEmptyReferenceSet, got %v", err)
			}
		})
	}
}

func TestTransactionsReferentialIntegrity(t *testing.T) {
	g := NewGeneratorWithSeed(42)
	customers, err := g.Customers(5)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}
	merchants, err := g.Merchants(3)
	if err != nil {
		t.Fatalf("Merchants failed: %v", err)
	}
	accounts, err := g.Accounts(customers, 1, 2)
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}

	start, end := testWindow()
	txns, err := g.Transactions(customers, merchants, accounts, 1000, start, end)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(txns) != 1000 {
		t.Fatalf("Expected 1000 transactions, got %d", len(txns))
	}

	merchantIDs := make(map[int64]bool)
	for _, m := range merchants {
		merchantIDs[m.MerchantID] = true
	}
	owner := make(map[int64]int64)
	for _, a := range accounts {
		owner[a.AccountID] = a.CustomerID
	}

	for _, tx := range txns {
		if !merchantIDs[tx.MerchantID] {
			t.Errorf("Transaction %d references unknown merchant %d", tx.TransactionID, tx.MerchantID)
		}
		ownerID, ok := owner[tx.AccountID]
		if !ok {
			t.Errorf("Transaction %d references unknown account %d", tx.TransactionID, tx.AccountID)
			continue
		}
		if ownerID != tx.CustomerID {
			t.Errorf("Transaction %d uses account %d owned by customer %d, not %d",
				tx.TransactionID, tx.AccountID, ownerID, tx.CustomerID)
		}
	}
}

func TestTransactionsStatusSplit(t *testing.T) {
	g := NewGeneratorWithSeed(7)
	customers, _ := g.Customers(5)
	merchants, _ := g.Merchants(3)
	accounts, _ := g.Accounts(customers, 1, 2)
	start, end := testWindow()

	txns, err := g.Transactions(customers, merchants, accounts, 1000, start, end)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}

	counts := make(map[string]int)
	for _, tx := range txns {
		counts[tx.Status]++
	}

	// 95/3/2 split with ±5% tolerance on a 1000-sample run.
	if counts[model.StatusCompleted] < 900 || counts[model.StatusCompleted] > 1000 {
		t.Errorf("completed count %d outside [900,1000]", counts[model.StatusCompleted])
	}
	if counts[model.StatusPending] > 80 {
		t.Errorf("pending count %d too high", counts[model.StatusPending])
	}
	if counts[model.StatusFailed] > 70 {
		t.Errorf("failed count %d too high", counts[model.StatusFailed])
	}
	if counts[model.StatusCompleted]+counts[model.StatusPending]+counts[model.StatusFailed] != 1000 {
		t.Errorf("status values outside the enumeration: %v", counts)
	}
}

func TestTransactionsAmountPolicy(t *testing.T) {
	g := NewGeneratorWithSeed(11)
	customers, _ := g.Customers(10)
	merchants, _ := g.Merchants(5)
	accounts, _ := g.Accounts(customers, 1, 2)
	start, end := testWindow()

	txns, err := g.Transactions(customers, merchants, accounts, 2000, start, end)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}

	for _, tx := range txns {
		// Currency scale: amounts carry at most two decimal places.
		cents := tx.Amount * 100
		if math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Errorf("Amount %v not at currency scale", tx.Amount)
		}

		switch tx.TransactionType {
		case model.TypePurchase:
			if tx.Amount < 5 || tx.Amount > 500 {
				t.Errorf("Purchase amount %v outside [5,500]", tx.Amount)
			}
		case model.TypePayment:
			if tx.Amount < 20 || tx.Amount > 2000 {
				t.Errorf("Payment amount %v outside [20,2000]", tx.Amount)
			}
		case model.TypeDeposit:
			if tx.Amount < 50 || tx.Amount > 5000 {
				t.Errorf("Deposit amount %v outside [50,5000]", tx.Amount)
			}
		case model.TypeWithdrawal:
			if tx.Amount > -20 || tx.Amount < -1000 {
				t.Errorf("Withdrawal amount %v outside [-1000,-20]", tx.Amount)
			}
		case model.TypeTransfer:
			mag := math.Abs(tx.Amount)
			if mag < 100 || mag > 5000 {
				t.Errorf("Transfer magnitude %v outside [100,5000]", mag)
			}
		default:
			t.Errorf("Unknown transaction type %q", tx.TransactionType)
		}
	}
}

func TestTransactionsTimestampWindow(t *testing.T) {
	g := NewGeneratorWithSeed(13)
	customers, _ := g.Customers(10)
	merchants, _ := g.Merchants(5)
	accounts, _ := g.Accounts(customers, 1, 2)
	start, end := testWindow()

	opening := make(map[int64]time.Time)
	for _, a := range accounts {
		opening[a.AccountID] = a.OpeningDate
	}

	txns, err := g.Transactions(customers, merchants, accounts, 500, start, end)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}

	for _, tx := range txns {
		if tx.TransactionDate.Before(start) || tx.TransactionDate.After(end) {
			t.Errorf("Timestamp %v outside window [%v, %v]", tx.TransactionDate, start, end)
		}
		opened := opening[tx.AccountID]
		if opened.After(start) && opened.Before(end) && tx.TransactionDate.Before(opened) {
			t.Errorf("Transaction at %v predates account opening %v", tx.TransactionDate, opened)
		}
	}
}

func TestTransactionsInvalidWindow(t *testing.T) {
	g := NewGenerator()
	customers, _ := g.Customers(2)
	merchants, _ := g.Merchants(2)
	accounts, _ := g.Accounts(customers, 1, 1)

	now := time.Now().UTC()
	_, err := g.Transactions(customers, merchants, accounts, 10, now, now.AddDate(0, 0, -1))
	if !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Inverted window error = %v, want ErrInvalidCount", err)
	}
}

func TestSeededDeterminism(t *testing.T) {
	start, end := testWindow()
	spec := Spec{
		Customers:              20,
		Merchants:              10,
		Transactions:           200,
		AccountsPerCustomerMin: 1,
		AccountsPerCustomerMax: 3,
		WindowStart:            start,
		WindowEnd:              end,
	}

	d1, err := NewGeneratorWithSeed(42).Dataset(spec)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	d2, err := NewGeneratorWithSeed(42).Dataset(spec)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if !reflect.DeepEqual(d1, d2) {
		t.Error("Same seed and counts produced different datasets")
	}
}

func TestUnseededRunsDiffer(t *testing.T) {
	g1 := NewGeneratorWithSeed(1)
	g2 := NewGeneratorWithSeed(2)

	c1, _ := g1.Customers(20)
	c2, _ := g2.Customers(20)

	if reflect.DeepEqual(c1, c2) {
		t.Error("Different seeds produced identical customers")
	}
}

// Fixed scenario: seed=42, 5 customers, 3 merchants, per-customer account
// range [1,2].
func TestScenarioSeed42(t *testing.T) {
	g := NewGeneratorWithSeed(42)

	customers, err := g.Customers(5)
	if err != nil {
		t.Fatalf("Customers failed: %v", err)
	}
	if len(customers) != 5 {
		t.Fatalf("Expected 5 customers, got %d", len(customers))
	}
	for i, c := range customers {
		if c.CustomerID != int64(i+1) {
			t.Errorf("Customer identifier %d, want %d", c.CustomerID, i+1)
		}
	}

	merchants, err := g.Merchants(3)
	if err != nil {
		t.Fatalf("Merchants failed: %v", err)
	}
	if len(merchants) != 3 {
		t.Fatalf("Expected 3 merchants, got %d", len(merchants))
	}
	for i, m := range merchants {
		if m.MerchantID != int64(i+1) {
			t.Errorf("Merchant identifier %d, want %d", m.MerchantID, i+1)
		}
	}

	accounts, err := g.Accounts(customers, 1, 2)
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) < 5 || len(accounts) > 10 {
		t.Errorf("Expected 5..10 accounts for range [1,2], got %d", len(accounts))
	}
	for _, a := range accounts {
		if a.CustomerID < 1 || a.CustomerID > 5 {
			t.Errorf("Account %d references customer %d outside {1..5}", a.AccountID, a.CustomerID)
		}
	}
}

func TestDatasetPipeline(t *testing.T) {
	spec := DefaultSpec()
	spec.Customers = 25
	spec.Merchants = 10
	spec.Transactions = 100

	ds, err := NewGeneratorWithSeed(99).Dataset(spec)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}

	counts := ds.Counts()
	if counts["customers"] != 25 {
		t.Errorf("customers = %d, want 25", counts["customers"])
	}
	if counts["merchants"] != 10 {
		t.Errorf("merchants = %d, want 10", counts["merchants"])
	}
	if counts["transactions"] != 100 {
		t.Errorf("transactions = %d, want 100", counts["transactions"])
	}
	if counts["accounts"] < 25 || counts["accounts"] > 75 {
		t.Errorf("accounts = %d, want 25..75 for range [1,3]", counts["accounts"])
	}
}

func TestDatasetRejectsBadCountsBeforeWork(t *testing.T) {
	spec := DefaultSpec()
	spec.Transactions = -1

	_, err := NewGenerator().Dataset(spec)
	if !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Dataset error = %v, want ErrInvalidCount", err)
	}
}
