package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OdnoOppa/budget-tracker/internal/currency"
	apperrors "github.com/OdnoOppa/budget-tracker/internal/errors"
	"github.com/OdnoOppa/budget-tracker/internal/models"
)

// statsService answers read-only aggregation queries. Balance, category, and
// transaction history queries read the raw transaction table so they always
// reflect exactly the live rows; the history tables back the coarser
// dashboard timeframes.
type statsService struct {
	db              *gorm.DB
	settingsService SettingsServicer
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB, settingsService SettingsServicer) StatsServicer {
	return &statsService{
		db:              db,
		settingsService: settingsService,
	}
}

// GetBalanceStats sums transaction amounts grouped by type over the inclusive
// date range.
func (s *statsService) GetBalanceStats(userID string, from, to time.Time) (*BalanceStats, error) {
	var rows []struct {
		Type  models.TransactionType
		Total decimal.Decimal
	}

	err := s.db.Model(&models.Transaction{}).
		Select("type, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, toUTCDay(from), toUTCDay(to)).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &BalanceStats{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			stats.Income = row.Total
		case models.TransactionTypeExpense:
			stats.Expense = row.Total
		}
	}
	return stats, nil
}

// GetCategoryStats groups transaction amounts by (type, category, icon) over
// the inclusive date range, largest totals first. An empty range yields an
// empty list.
func (s *statsService) GetCategoryStats(userID string, from, to time.Time) ([]CategoryStat, error) {
	var rows []struct {
		Type         models.TransactionType
		Category     string
		CategoryIcon string
		Total        decimal.Decimal
	}

	err := s.db.Model(&models.Transaction{}).
		Select("type, category, category_icon, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, toUTCDay(from), toUTCDay(to)).
		Group("type, category, category_icon").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := make([]CategoryStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, CategoryStat{
			Type:         row.Type,
			Category:     row.Category,
			CategoryIcon: row.CategoryIcon,
			TotalAmount:  row.Total,
		})
	}
	return stats, nil
}

// GetTransactionHistory returns the user's transactions in the inclusive date
// range, newest first, each with the amount formatted in the user's currency.
func (s *statsService) GetTransactionHistory(userID string, from, to time.Time) ([]TransactionRecord, error) {
	settings, err := s.settingsService.EnsureUserSettings(userID)
	if err != nil {
		return nil, err
	}

	formatter, ok := currency.NewFormatter(settings.Currency)
	if !ok {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	var transactions []models.Transaction
	err = s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, toUTCDay(from), toUTCDay(to)).
		Order("date DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]TransactionRecord, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, TransactionRecord{
			Transaction:     t,
			FormattedAmount: formatter.Format(t.Amount),
		})
	}
	return records, nil
}

// GetHistoryPeriods returns the distinct years with recorded history,
// ascending. Falls back to the current year when the user has none.
func (s *statsService) GetHistoryPeriods(userID string) ([]int, error) {
	var years []int
	err := s.db.Model(&models.MonthHistory{}).
		Where("user_id = ?", userID).
		Distinct("year").
		Order("year ASC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(years) == 0 {
		years = []int{time.Now().UTC().Year()}
	}
	return years, nil
}

// GetHistoryData returns zero-filled aggregate buckets for one year (twelve
// monthly points) or one month (one point per day), read from the rolling
// history tables.
func (s *statsService) GetHistoryData(userID string, timeframe Timeframe, year, month int) ([]HistoryPoint, error) {
	switch timeframe {
	case TimeframeYear:
		return s.yearHistoryData(userID, year)
	case TimeframeMonth:
		return s.monthHistoryData(userID, year, month)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "timeframe must be month or year")
	}
}

func (s *statsService) yearHistoryData(userID string, year int) ([]HistoryPoint, error) {
	var rows []models.YearHistory
	err := s.db.Where("user_id = ? AND year = ?", userID, year).
		Order("month ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byMonth := make(map[int]models.YearHistory, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	points := make([]HistoryPoint, 0, 12)
	for month := 1; month <= 12; month++ {
		point := HistoryPoint{Year: year, Month: month, Income: decimal.Zero, Expense: decimal.Zero}
		if row, ok := byMonth[month]; ok {
			point.Income = row.Income
			point.Expense = row.Expense
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *statsService) monthHistoryData(userID string, year, month int) ([]HistoryPoint, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	var rows []models.MonthHistory
	err := s.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byDay := make(map[int]models.MonthHistory, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	// Day zero of the next month is the last day of this one.
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	points := make([]HistoryPoint, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		d := day
		point := HistoryPoint{Year: year, Month: month, Day: &d, Income: decimal.Zero, Expense: decimal.Zero}
		if row, ok := byDay[day]; ok {
			point.Income = row.Income
			point.Expense = row.Expense
		}
		points = append(points, point)
	}
	return points, nil
}
