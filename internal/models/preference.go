package models

import "time"

// UserPreference is a user preference identified by (category, key).
// Categories group related preferences, e.g. "ui" display options or
// "database" connection preferences.
type UserPreference struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Category  string    `gorm:"size:255;not null;uniqueIndex:idx_pref_category_key" json:"category"`
	Key       string    `gorm:"size:255;not null;uniqueIndex:idx_pref_category_key;column:key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the UserPreference model.
func (UserPreference) TableName() string {
	return "user_preferences"
}

// Validate checks if the preference is valid.
func (p *UserPreference) Validate() error {
	if p.Category == "" {
		return ValidationError{Field: "category", Message: "category is required"}
	}
	if p.Key == "" {
		return ValidationError{Field: "key", Message: "key is required"}
	}
	return nil
}
