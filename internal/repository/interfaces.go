// Package repository defines data access for beatbrain application state.
// All database access goes through these interfaces, enabling easy testing.
package repository

import (
	"context"

	"github.com/beatbrain/beatbrain/internal/models"
)

// TrackInput is the caller-supplied track snapshot used when creating
// playlists or appending tracks. ID and FilePath are required; the other
// metadata fields are optional and stored as given (NULL when absent).
type TrackInput struct {
	ID       int64    `json:"id"`
	FilePath string   `json:"file_path"`
	Duration *float64 `json:"duration,omitempty"`
	Artist   *string  `json:"artist,omitempty"`
	Title    *string  `json:"title,omitempty"`
	Album    *string  `json:"album,omitempty"`
	Genre    *string  `json:"genre,omitempty"`
	BPM      *float64 `json:"bpm,omitempty"`
	Key      *string  `json:"key,omitempty"`
}

// PlaylistUpdate carries a partial playlist update; nil fields are left
// unchanged.
type PlaylistUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// PlaylistRepository defines operations for playlist persistence.
type PlaylistRepository interface {
	// Create inserts a playlist and its tracks in one transaction, assigning
	// 0-based positions in input order, and returns the new playlist id.
	Create(ctx context.Context, name, description string, source models.TrackSource, tracks []TrackInput) (int64, error)
	// GetByID retrieves a playlist with its tracks ordered by position.
	GetByID(ctx context.Context, id int64) (*models.Playlist, error)
	// GetTracks retrieves a playlist's tracks ordered by position.
	GetTracks(ctx context.Context, playlistID int64) ([]models.PlaylistTrack, error)
	// GetAll retrieves all playlists ordered by created_at descending,
	// tracks included in position order.
	GetAll(ctx context.Context) ([]*models.Playlist, error)
	// Update applies a partial update and refreshes updated_at.
	Update(ctx context.Context, id int64, update PlaylistUpdate) error
	// UpdateTrackPosition moves a track to a new position within a playlist.
	UpdateTrackPosition(ctx context.Context, playlistID, trackID int64, position int) error
	// AddTrack appends a track to the end of a playlist.
	AddTrack(ctx context.Context, playlistID int64, track TrackInput) (*models.PlaylistTrack, error)
	// RemoveTrack deletes one track scoped to both ids.
	RemoveTrack(ctx context.Context, playlistID, trackID int64) error
	// Delete removes a playlist and all its tracks in one transaction.
	Delete(ctx context.Context, id int64) error
	// SetFilters records the serialized filter payload a playlist was
	// generated from.
	SetFilters(ctx context.Context, id int64, filters models.TrackFilters) error
}

// SettingsRepository defines operations for the app-wide key/value settings
// store, plus typed accessors for the well-known keys.
type SettingsRepository interface {
	// Get returns the value for key, or ok=false when absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// GetAll returns all settings as a key to value map.
	GetAll(ctx context.Context) (map[string]string, error)
	// Set upserts a setting, refreshing its timestamp.
	Set(ctx context.Context, key, value string) error
	// Delete removes a setting; absence is not an error.
	Delete(ctx context.Context, key string) error

	// SaveSearchFilters stores the serialized library search filters.
	SaveSearchFilters(ctx context.Context, filters models.SearchFilters) error
	// SaveTrackFilters stores the serialized playlist-builder filters.
	SaveTrackFilters(ctx context.Context, filters models.TrackFilters) error
	// TrackFilters returns the raw serialized filter payload, or ok=false
	// when never saved. The caller deserializes.
	TrackFilters(ctx context.Context) (string, bool, error)
	// LastExportPath returns the directory of the most recent export.
	LastExportPath(ctx context.Context) (string, bool, error)
	// SetLastExportPath records the directory of the most recent export.
	SetLastExportPath(ctx context.Context, path string) error
}

// PreferencesRepository defines operations for category-scoped user
// preferences.
type PreferencesRepository interface {
	// Get returns the value for (category, key), or ok=false when absent.
	Get(ctx context.Context, category, key string) (value string, ok bool, err error)
	// GetAll returns the key to value map for one category only.
	GetAll(ctx context.Context, category string) (map[string]string, error)
	// Set upserts on the (category, key) unique pair.
	Set(ctx context.Context, category, key, value string) error
}
