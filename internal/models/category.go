package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a user-defined transaction category. A user may have
// an income and an expense category with the same name, but never two of
// the same name and type.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name_type" json:"user_id"`
	Name   string       `gorm:"not null;uniqueIndex:idx_categories_user_name_type" json:"name"`
	Type   CategoryType `gorm:"not null;uniqueIndex:idx_categories_user_name_type" json:"type"`
	Icon   string       `json:"icon"`
}
