package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OdnoOppa/budget-tracker/internal/models"
	"github.com/OdnoOppa/budget-tracker/internal/pagination"
	"github.com/OdnoOppa/budget-tracker/internal/testutil"
)

func getMonthHistory(t *testing.T, db *gorm.DB, userID string, year, month, day int) *models.MonthHistory {
	t.Helper()
	var row models.MonthHistory
	err := db.Where("user_id = ? AND year = ? AND month = ? AND day = ?", userID, year, month, day).
		First(&row).Error
	if err != nil {
		t.Fatalf("month history row (%d-%d-%d) not found: %v", year, month, day, err)
	}
	return &row
}

func getYearHistory(t *testing.T, db *gorm.DB, userID string, year, month int) *models.YearHistory {
	t.Helper()
	var row models.YearHistory
	err := db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&row).Error
	if err != nil {
		t.Fatalf("year history row (%d-%d) not found: %v", year, month, err)
	}
	return &row
}

func TestCreateTransaction(t *testing.T) {
	t.Run("income_updates_both_histories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		txn, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "1000"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "march pay", "salary")
		testutil.AssertNoError(t, err)

		if txn.Category != "Salary" {
			t.Errorf("expected stored category name Salary, got %s", txn.Category)
		}
		if txn.CategoryIcon == "" {
			t.Error("expected category icon to be copied onto the transaction")
		}
		if !txn.Date.Equal(testutil.Date(2024, time.March, 15)) {
			t.Errorf("expected date normalized to UTC midnight, got %v", txn.Date)
		}

		month := getMonthHistory(t, db, user.ID, 2024, 3, 15)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "1000"), month.Income)
		testutil.AssertDecimalEqual(t, decimal.Zero, month.Expense)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "1000"), year.Income)
		testutil.AssertDecimalEqual(t, decimal.Zero, year.Expense)
	})

	t.Run("expense_updates_expense_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "250.50"),
			models.TransactionTypeExpense, testutil.Date(2024, time.March, 15), "", "Food")
		testutil.AssertNoError(t, err)

		month := getMonthHistory(t, db, user.ID, 2024, 3, 15)
		testutil.AssertDecimalEqual(t, decimal.Zero, month.Income)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "250.50"), month.Expense)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "250.50"), year.Expense)
	})

	t.Run("same_day_accumulates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "1000"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "500"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "200"),
			models.TransactionTypeExpense, testutil.Date(2024, time.March, 15), "", "Food")
		testutil.AssertNoError(t, err)

		month := getMonthHistory(t, db, user.ID, 2024, 3, 15)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "1500"), month.Income)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "200"), month.Expense)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "1500"), year.Income)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "200"), year.Expense)
	})

	t.Run("different_days_share_year_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "100"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 1), "", "Salary")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "100"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 2), "", "Salary")
		testutil.AssertNoError(t, err)

		var monthRows int64
		db.Model(&models.MonthHistory{}).Where("user_id = ?", user.ID).Count(&monthRows)
		if monthRows != 2 {
			t.Errorf("expected 2 daily rows, got %d", monthRows)
		}

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "200"), year.Income)
	})

	t.Run("date_normalized_to_utc_midnight", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		afternoon := time.Date(2024, time.March, 15, 17, 42, 9, 0, time.UTC)
		txn, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionTypeIncome, afternoon, "", "Salary")
		testutil.AssertNoError(t, err)

		if !txn.Date.Equal(testutil.Date(2024, time.March, 15)) {
			t.Errorf("expected truncation to midnight, got %v", txn.Date)
		}
		getMonthHistory(t, db, user.ID, 2024, 3, 15)
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionTypeExpense, testutil.Date(2024, time.March, 15), "", "ghost")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var count int64
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected no transactions recorded, got %d", count)
		}
	})

	t.Run("category_type_must_match", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionTypeExpense, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(user.ID, decimal.Zero,
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "-5"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionType("transfer"), testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")

		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionTypeIncome, time.Time{}, "", "Salary")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, testutil.Amount(t, "10"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("decrements_both_histories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		txn, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "1000"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, txn.ID))

		month := getMonthHistory(t, db, user.ID, 2024, 3, 15)
		testutil.AssertDecimalEqual(t, decimal.Zero, month.Income)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, decimal.Zero, year.Income)

		_, err = svc.GetTransactionByID(user.ID, txn.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("leaves_other_days_intact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		keep, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "300"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 10), "", "Salary")
		testutil.AssertNoError(t, err)
		drop, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "700"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, drop.ID))

		month := getMonthHistory(t, db, user.ID, 2024, 3, 10)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "300"), month.Income)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "300"), year.Income)

		_, err = svc.GetTransactionByID(user.ID, keep.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, "0190a8f0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("scoped_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, owner.ID, "Salary", models.CategoryTypeIncome)

		txn, err := svc.CreateTransaction(owner.ID, testutil.Amount(t, "100"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)

		err = svc.DeleteTransaction(other.ID, txn.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		_, err = svc.GetTransactionByID(owner.ID, txn.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("rolls_back_when_history_row_missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

		txn, err := svc.CreateTransaction(user.ID, testutil.Amount(t, "100"),
			models.TransactionTypeIncome, testutil.Date(2024, time.March, 15), "", "Salary")
		testutil.AssertNoError(t, err)

		// Simulate the aggregate drifting out from under the delete.
		err = db.Where("user_id = ?", user.ID).Delete(&models.MonthHistory{}).Error
		testutil.AssertNoError(t, err)

		err = svc.DeleteTransaction(user.ID, txn.ID)
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")

		_, err = svc.GetTransactionByID(user.ID, txn.ID)
		testutil.AssertNoError(t, err)

		year := getYearHistory(t, db, user.ID, 2024, 3)
		testutil.AssertDecimalEqual(t, testutil.Amount(t, "100"), year.Income)
	})
}

func TestGetUserTransactions(t *testing.T) {
	seed := func(t *testing.T, db *gorm.DB, svc TransactionServicer, userID string) {
		t.Helper()
		testutil.CreateTestCategoryWithName(t, db, userID, "Salary", models.CategoryTypeIncome)
		testutil.CreateTestCategoryWithName(t, db, userID, "Food", models.CategoryTypeExpense)
		for day := 1; day <= 5; day++ {
			_, err := svc.CreateTransaction(userID, testutil.Amount(t, "100"),
				models.TransactionTypeIncome, testutil.Date(2024, time.March, day), "", "Salary")
			testutil.AssertNoError(t, err)
		}
		_, err := svc.CreateTransaction(userID, testutil.Amount(t, "40"),
			models.TransactionTypeExpense, testutil.Date(2024, time.March, 3), "", "Food")
		testutil.AssertNoError(t, err)
	}

	t.Run("paginates_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		seed(t, db, svc, user.ID)

		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 1, PageSize: 4}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 6 {
			t.Errorf("expected 6 total, got %d", page.TotalItems)
		}
		if len(page.Data) != 4 {
			t.Fatalf("expected 4 items on first page, got %d", len(page.Data))
		}
		if !page.Data[0].Date.Equal(testutil.Date(2024, time.March, 5)) {
			t.Errorf("expected newest first, got date %v", page.Data[0].Date)
		}
	})

	t.Run("filters_by_type_and_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		seed(t, db, svc, user.ID)

		expense := models.TransactionTypeExpense
		from := testutil.Date(2024, time.March, 1)
		to := testutil.Date(2024, time.March, 31)
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 1, PageSize: 10},
			TransactionFilter{Type: &expense, FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 expense, got %d", page.TotalItems)
		}
		if page.Data[0].Category != "Food" {
			t.Errorf("expected Food expense, got %s", page.Data[0].Category)
		}
	})

	t.Run("filters_by_amount_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		user := testutil.CreateTestUser(t, db)
		seed(t, db, svc, user.ID)

		min := testutil.Amount(t, "50")
		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 1, PageSize: 10},
			TransactionFilter{MinAmount: &min})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 5 {
			t.Errorf("expected 5 transactions of at least 50, got %d", page.TotalItems)
		}
	})
}
