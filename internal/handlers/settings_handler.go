package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/OdnoOppa/budget-tracker/internal/errors"
	"github.com/OdnoOppa/budget-tracker/internal/services"
)

// SettingsHandler handles user settings requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the settings update payload
type UpdateSettingsRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

// GetUserSettings returns the user's settings, creating defaults on first access
// @Summary     Get user settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "User settings"
// @Router      /user-settings [get]
func (h *SettingsHandler) GetUserSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.EnsureUserSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateUserSettings updates the user's preferred currency
// @Summary     Update user settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "New settings"
// @Success     200 {object} map[string]interface{} "Updated settings"
// @Failure     400 {object} map[string]interface{} "Unsupported currency"
// @Router      /user-settings [put]
func (h *SettingsHandler) UpdateUserSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateCurrency(userID, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
