package models

import "github.com/shopspring/decimal"

// MonthHistory is a rolling day-granularity aggregate of a user's income and
// expense totals. Rows are created on the first transaction for a day and
// incremented in the same storage transaction as the triggering write; they
// are never deleted, so residual zero rows may persist.
type MonthHistory struct {
	UserID  string          `gorm:"type:uuid;primaryKey" json:"user_id"`
	Year    int             `gorm:"primaryKey" json:"year"`
	Month   int             `gorm:"primaryKey" json:"month"`
	Day     int             `gorm:"primaryKey" json:"day"`
	Income  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"income"`
	Expense decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"expense"`
}

// YearHistory is the month-granularity counterpart of MonthHistory. It is
// maintained independently rather than derived from MonthHistory at query
// time.
type YearHistory struct {
	UserID  string          `gorm:"type:uuid;primaryKey" json:"user_id"`
	Year    int             `gorm:"primaryKey" json:"year"`
	Month   int             `gorm:"primaryKey" json:"month"`
	Income  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"income"`
	Expense decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"expense"`
}
