package models

import "time"

// Well-known setting keys. Application code goes through the typed
// accessors on the settings repository instead of using raw keys.
const (
	// SettingKeySearchFilters stores the serialized library search filters.
	SettingKeySearchFilters = "searchFilters"

	// SettingKeyTrackFilters stores the serialized playlist-builder filters.
	SettingKeyTrackFilters = "trackFilters"

	// SettingKeyLastExportPath stores the directory of the last M3U export.
	SettingKeyLastExportPath = "lastExportPath"
)

// Setting is a single app-wide key/value setting.
// Setting an existing key overwrites its value and timestamp.
type Setting struct {
	Key       string    `gorm:"primarykey;size:255;column:key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model.
func (Setting) TableName() string {
	return "app_settings"
}

// Validate checks if the setting is valid.
func (s *Setting) Validate() error {
	if s.Key == "" {
		return ValidationError{Field: "key", Message: "key is required"}
	}
	return nil
}
