// Package models defines the GORM models for the budget tracker.
package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/OdnoOppa/budget-tracker/internal/uuid"
)

// Base contains common columns for all tables keyed by a single id.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
