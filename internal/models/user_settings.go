package models

import "time"

// UserSettings holds per-user display preferences. A row is created lazily
// with the default currency on first access.
type UserSettings struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Currency  string    `gorm:"not null" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
