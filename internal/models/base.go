// Package models defines GORM database models for beatbrain entities.
package models

import "time"

// Model provides common fields for models with an auto-incrementing
// integer primary key. Rows are hard-deleted; there is no soft-delete
// column anywhere in the schema.
type Model struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StringPtr returns a pointer to a string value.
// Useful for setting optional *string fields in structs.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to a float64 value.
func Float64Ptr(f float64) *float64 {
	return &f
}

// StringVal returns the value of a string pointer, or def when nil.
func StringVal(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
