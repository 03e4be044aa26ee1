package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/OdnoOppa/budget-tracker/internal/currency"
	apperrors "github.com/OdnoOppa/budget-tracker/internal/errors"
	"github.com/OdnoOppa/budget-tracker/internal/models"
)

// settingsService handles user settings.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// EnsureUserSettings returns the user's settings, creating a row with the
// default currency on first access.
func (s *settingsService) EnsureUserSettings(userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.UserSettings{
		UserID:   userID,
		Currency: currency.Default,
	}
	if err := s.db.Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateCurrency sets the user's preferred currency.
func (s *settingsService) UpdateCurrency(userID, currencyCode string) (*models.UserSettings, error) {
	if !currency.IsSupported(currencyCode) {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	settings, err := s.EnsureUserSettings(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(settings).Update("currency", currencyCode).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	settings.Currency = currencyCode
	return settings, nil
}
