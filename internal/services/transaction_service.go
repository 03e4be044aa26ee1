package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/OdnoOppa/budget-tracker/internal/errors"
	"github.com/OdnoOppa/budget-tracker/internal/models"
	"github.com/OdnoOppa/budget-tracker/internal/pagination"
)

// transactionService handles the transaction write path. Every create or
// delete mutates the transaction table and both history tables inside one
// storage transaction; the history adjustments are relative expressions so
// concurrent writers commute instead of overwriting each other.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

// toUTCDay truncates a timestamp to midnight UTC of its calendar day. History
// bucketing and range filters both work on UTC day boundaries.
func toUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateTransaction validates and records a transaction, upserting the daily
// and monthly history rows in the same storage transaction.
func (s *transactionService) CreateTransaction(
	userID string,
	amount decimal.Decimal,
	txType models.TransactionType,
	date time.Time,
	description string,
	category string,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	// Hard precondition: the category must already exist for this user.
	categoryRow, err := s.categoryService.ResolveCategory(userID, category, models.CategoryType(txType))
	if err != nil {
		return nil, err
	}

	day := toUTCDay(date)

	transaction := &models.Transaction{
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		Date:         day,
		Description:  description,
		Category:     categoryRow.Name,
		CategoryIcon: categoryRow.Icon,
	}

	income, expense := splitByType(txType, amount)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := upsertMonthHistory(tx, userID, day, income, expense); err != nil {
			return err
		}
		return upsertYearHistory(tx, userID, day, income, expense)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction removes a transaction and reverses its effect on both
// history tables. The decrement is symmetric with creation: daily and monthly
// rows are both adjusted, and a decrement that matches no row aborts the
// whole unit.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	column, err := historyColumn(transaction.Type)
	if err != nil {
		return err
	}
	day := toUTCDay(transaction.Date)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", transaction.ID, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		res := tx.Model(&models.MonthHistory{}).
			Where("user_id = ? AND year = ? AND month = ? AND day = ?",
				userID, day.Year(), int(day.Month()), day.Day()).
			Update(column, gorm.Expr(column+" - ?", transaction.Amount))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("month history row missing for transaction %s", transaction.ID))
		}

		res = tx.Model(&models.YearHistory{}).
			Where("user_id = ? AND year = ? AND month = ?",
				userID, day.Year(), int(day.Month())).
			Update(column, gorm.Expr(column+" - ?", transaction.Amount))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("year history row missing for transaction %s", transaction.ID))
		}

		return nil
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", toUTCDay(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", toUTCDay(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// splitByType routes an amount to the income or expense side.
func splitByType(txType models.TransactionType, amount decimal.Decimal) (income, expense decimal.Decimal) {
	if txType == models.TransactionTypeIncome {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}

// historyColumn maps a transaction type to the history column it adjusts.
func historyColumn(txType models.TransactionType) (string, error) {
	switch txType {
	case models.TransactionTypeIncome:
		return "income", nil
	case models.TransactionTypeExpense:
		return "expense", nil
	default:
		return "", apperrors.ErrInvalidTransactionType
	}
}

// upsertMonthHistory creates or increments the day-granularity history row.
// The increment runs inside the database so concurrent writes never lose
// updates.
func upsertMonthHistory(tx *gorm.DB, userID string, day time.Time, income, expense decimal.Decimal) error {
	row := &models.MonthHistory{
		UserID:  userID,
		Year:    day.Year(),
		Month:   int(day.Month()),
		Day:     day.Day(),
		Income:  income,
		Expense: expense,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"income":  gorm.Expr("income + ?", income),
			"expense": gorm.Expr("expense + ?", expense),
		}),
	}).Create(row).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// upsertYearHistory creates or increments the month-granularity history row.
func upsertYearHistory(tx *gorm.DB, userID string, day time.Time, income, expense decimal.Decimal) error {
	row := &models.YearHistory{
		UserID:  userID,
		Year:    day.Year(),
		Month:   int(day.Month()),
		Income:  income,
		Expense: expense,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"income":  gorm.Expr("income + ?", income),
			"expense": gorm.Expr("expense + ?", expense),
		}),
	}).Create(row).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
