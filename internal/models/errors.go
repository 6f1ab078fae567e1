package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for any NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError indicates an operation targeted a row that does not exist.
// It carries the entity name and identifying key so callers can surface
// useful context instead of a silent no-op.
type NotFoundError struct {
	Entity string
	Key    string
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// Unwrap lets errors.Is(err, ErrNotFound) match.
func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFound builds a NotFoundError for the given entity and key.
func NewNotFound(entity string, key any) error {
	return NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// ValidationError represents a validation error with field and message.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Common validation errors for models.
var (
	// ErrNameRequired indicates a required name field is empty.
	ErrNameRequired = errors.New("name is required")

	// ErrFilePathRequired indicates a required file path field is empty.
	ErrFilePathRequired = errors.New("file_path is required")

	// ErrSourceTrackIDRequired indicates a track is missing its library id.
	ErrSourceTrackIDRequired = errors.New("source_track_id is required")

	// ErrInvalidTrackSource indicates an invalid playlist track source.
	ErrInvalidTrackSource = errors.New("invalid track source: must be 'mixxx' or 'rekordbox'")

	// ErrEmptyPlaylist indicates an export was attempted with no tracks.
	ErrEmptyPlaylist = errors.New("playlist has no tracks to export")

	// ErrKeyRequired indicates a required key field is empty.
	ErrKeyRequired = errors.New("key is required")

	// ErrCategoryRequired indicates a required category field is empty.
	ErrCategoryRequired = errors.New("category is required")
)
