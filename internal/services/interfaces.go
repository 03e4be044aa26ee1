// Package services contains the business logic of the budget tracker,
// implemented over GORM and exposed to handlers through small interfaces.
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/OdnoOppa/budget-tracker/internal/models"
	"github.com/OdnoOppa/budget-tracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon string, categoryType models.CategoryType) (*models.Category, error)
	DeleteCategory(userID, name string, categoryType models.CategoryType) error
	GetUserCategories(userID string, categoryType *models.CategoryType) ([]models.Category, error)
	ResolveCategory(userID, name string, categoryType models.CategoryType) (*models.Category, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// TransactionServicer defines the contract for the transaction write path
// and raw transaction reads.
type TransactionServicer interface {
	CreateTransaction(userID string, amount decimal.Decimal, txType models.TransactionType, date time.Time, description, category string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// BalanceStats holds the income and expense totals for a date range.
type BalanceStats struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryStat holds the total amount for one (type, category) group.
type CategoryStat struct {
	Type         models.TransactionType `json:"type"`
	Category     string                 `json:"category"`
	CategoryIcon string                 `json:"category_icon"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
}

// TransactionRecord is a transaction with its amount rendered in the owning
// user's preferred currency.
type TransactionRecord struct {
	models.Transaction
	FormattedAmount string `json:"formatted_amount"`
}

// Timeframe selects the granularity of a history query.
type Timeframe string

const (
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// HistoryPoint is one bucket of aggregated history data. Day is set only for
// month-timeframe queries.
type HistoryPoint struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Day     *int            `json:"day,omitempty"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// StatsServicer defines the contract for read-only aggregation queries.
type StatsServicer interface {
	GetBalanceStats(userID string, from, to time.Time) (*BalanceStats, error)
	GetCategoryStats(userID string, from, to time.Time) ([]CategoryStat, error)
	GetTransactionHistory(userID string, from, to time.Time) ([]TransactionRecord, error)
	GetHistoryPeriods(userID string) ([]int, error)
	GetHistoryData(userID string, timeframe Timeframe, year, month int) ([]HistoryPoint, error)
}

// SettingsServicer defines the contract for user settings.
type SettingsServicer interface {
	EnsureUserSettings(userID string) (*models.UserSettings, error)
	UpdateCurrency(userID, currencyCode string) (*models.UserSettings, error)
}
