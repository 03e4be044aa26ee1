package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the transaction type is one of the supported values.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction. The category name and icon
// are copied from the category at creation time so that later category edits
// or deletions never rewrite history.
type Transaction struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Type         TransactionType `gorm:"not null" json:"type"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	Description  string          `json:"description"`
	Category     string          `gorm:"not null" json:"category"`
	CategoryIcon string          `json:"category_icon"`
}
