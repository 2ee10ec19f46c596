package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a ledger entry. Positive amounts are income, negative are expenses.
type Transaction struct {
	ID            string            `json:"id" gorm:"primaryKey;size:32"`
	Date          time.Time         `json:"date" gorm:"not null;index"`
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency      string            `json:"currency" gorm:"size:3;not null"`
	Type          TransactionType   `json:"type" gorm:"size:16;not null"`
	Category      string            `json:"category" gorm:"size:64"`
	Status        TransactionStatus `json:"status" gorm:"size:16"`
	PaymentMethod string            `json:"payment_method"`
	OrderID       string            `json:"order_id,omitempty" gorm:"size:64;index"`
	CreatedAt     time.Time         `json:"created_at"`
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

type TransactionStatus string

const (
	TransactionCleared TransactionStatus = "Cleared"
	TransactionPending TransactionStatus = "Pending"
)

const CategorySales = "Sales"
