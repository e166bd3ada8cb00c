// Package model defines the entities of the financial star schema:
// three dimension tables (customers, merchants, accounts) and one
// fact table (transactions).
package model

import "time"

// Customer is a root dimension entity with no foreign keys.
type Customer struct {
	CustomerID         int64     `json:"customer_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	ZipCode            string    `json:"zip_code"`
	DateOfBirth        time.Time `json:"date_of_birth"`
	AccountOpeningDate time.Time `json:"account_opening_date"`
	RiskScore          int       `json:"risk_score"`
}

// Merchant is a root dimension entity with no foreign keys.
type Merchant struct {
	MerchantID   int64  `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
	Category     string `json:"merchant_category"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Account belongs to exactly one customer.
type Account struct {
	AccountID     int64     `json:"account_id"`
	CustomerID    int64     `json:"customer_id"`
	AccountType   string    `json:"account_type"`
	AccountNumber string    `json:"account_number"`
	Balance       float64   `json:"balance"`
	OpeningDate   time.Time `json:"opening_date"`
	Status        string    `json:"status"`
}

// Transaction is the fact entity. All three references must resolve to
// entities produced in the same generation run, and AccountID must belong
// to CustomerID.
type Transaction struct {
	TransactionID   int64     `json:"transaction_id"`
	CustomerID      int64     `json:"customer_id"`
	MerchantID      int64     `json:"merchant_id"`
	AccountID       int64     `json:"account_id"`
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date"`
	Status          string    `json:"status"`
}

// Dataset is the output of one generation run. Entity sets are immutable
// once produced; the loader consumes them as-is.
type Dataset struct {
	Customers    []Customer    `json:"customers"`
	Merchants    []Merchant    `json:"merchants"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

// Counts returns the number of records per entity type.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"customers":    len(d.Customers),
		"merchants":    len(d.Merchants),
		"accounts":     len(d.Accounts),
		"transactions": len(d.Transactions),
	}
}

// Account type enumeration.
const (
	AccountChecking = "checking"
	AccountSavings  = "savings"
	AccountCredit   = "credit"
)

// Transaction status enumeration.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// Transaction type enumeration.
const (
	TypePurchase   = "purchase"
	TypeWithdrawal = "withdrawal"
	TypeDeposit    = "deposit"
	TypeTransfer   = "transfer"
	TypePayment    = "payment"
)

// AccountTypes lists all valid account types.
var AccountTypes = []string{AccountChecking, AccountSavings, AccountCredit}

// TransactionTypes lists all valid transaction types.
var TransactionTypes = []string{
	TypePurchase, TypeWithdrawal, TypeDeposit, TypeTransfer, TypePayment,
}

// MerchantCategories is the closed merchant category enumeration.
var MerchantCategories = []string{
	"Restaurant", "Grocery", "Gas Station", "Retail",
	"Online", "Pharmacy", "Entertainment",
}

// TransactionCategories is the closed spending category enumeration.
var TransactionCategories = []string{
	"Food & Dining", "Shopping", "Transportation", "Bills",
	"Entertainment", "Healthcare", "Travel",
}
