package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/OdnoOppa/budget-tracker/internal/errors"
	"github.com/OdnoOppa/budget-tracker/internal/services"
)

// StatsHandler handles aggregation queries over a user's transactions.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetBalanceStats returns income and expense totals for a date range
// @Summary     Balance stats
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Start date (YYYY-MM-DD)"
// @Param       to query string true "End date (YYYY-MM-DD)"
// @Success     200 {object} services.BalanceStats "Income and expense totals"
// @Failure     400 {object} map[string]interface{} "Invalid date range"
// @Router      /stats/balance [get]
func (h *StatsHandler) GetBalanceStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.GetBalanceStats(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCategoryStats returns per-category totals for a date range
// @Summary     Category stats
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Start date (YYYY-MM-DD)"
// @Param       to query string true "End date (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryStat "Category totals, largest first"
// @Failure     400 {object} map[string]interface{} "Invalid date range"
// @Router      /stats/categories [get]
func (h *StatsHandler) GetCategoryStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.statsService.GetCategoryStats(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTransactionHistory returns the transactions in a date range with
// formatted amounts
// @Summary     Transaction history
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Start date (YYYY-MM-DD)"
// @Param       to query string true "End date (YYYY-MM-DD)"
// @Success     200 {array} services.TransactionRecord "Transactions newest first"
// @Failure     400 {object} map[string]interface{} "Invalid date range"
// @Router      /transactions/history [get]
func (h *StatsHandler) GetTransactionHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.statsService.GetTransactionHistory(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetHistoryPeriods returns the years with recorded history
// @Summary     History periods
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} int "Years ascending"
// @Router      /history/periods [get]
func (h *StatsHandler) GetHistoryPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.statsService.GetHistoryPeriods(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, periods)
}

// GetHistoryData returns zero-filled aggregate buckets for a timeframe
// @Summary     History data
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       timeframe query string true "month or year"
// @Param       year query int true "Year"
// @Param       month query int false "Month (1-12, required for month timeframe)"
// @Success     200 {array} services.HistoryPoint "Aggregate buckets"
// @Failure     400 {object} map[string]interface{} "Invalid parameters"
// @Router      /history/data [get]
func (h *StatsHandler) GetHistoryData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeframe := services.Timeframe(c.Query("timeframe"))

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be an integer"))
		return
	}

	month := 0
	if raw := c.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be an integer"))
			return
		}
	}

	data, err := h.statsService.GetHistoryData(userID, timeframe, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}
