// Package handlers provides HTTP API handlers for beatbrain.
package handlers

import (
	"time"

	"github.com/beatbrain/beatbrain/internal/library"
	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/repository"
)

// Common response types

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Playlist types

// PlaylistTrackResponse represents a playlist track in API responses.
type PlaylistTrackResponse struct {
	ID            int64    `json:"id"`
	PlaylistID    int64    `json:"playlist_id"`
	SourceTrackID int64    `json:"source_track_id"`
	FilePath      string   `json:"file_path"`
	Duration      *float64 `json:"duration,omitempty"`
	Artist        *string  `json:"artist,omitempty"`
	Title         *string  `json:"title,omitempty"`
	Album         *string  `json:"album,omitempty"`
	Genre         *string  `json:"genre,omitempty"`
	BPM           *float64 `json:"bpm,omitempty"`
	Key           *string  `json:"key,omitempty"`
	Position      int      `json:"position"`
}

// PlaylistTrackFromModel converts a model to a response.
func PlaylistTrackFromModel(t *models.PlaylistTrack) PlaylistTrackResponse {
	return PlaylistTrackResponse{
		ID:            t.ID,
		PlaylistID:    t.PlaylistID,
		SourceTrackID: t.SourceTrackID,
		FilePath:      t.FilePath,
		Duration:      t.Duration,
		Artist:        t.Artist,
		Title:         t.Title,
		Album:         t.Album,
		Genre:         t.Genre,
		BPM:           t.BPM,
		Key:           t.Key,
		Position:      t.Position,
	}
}

// PlaylistResponse represents a playlist in API responses.
type PlaylistResponse struct {
	ID          int64              `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	TrackSource models.TrackSource `json:"track_source"`
	Filters     string             `json:"filters,omitempty"`
	TrackCount  int                `json:"track_count"`
}

// PlaylistFromModel converts a model to a response.
func PlaylistFromModel(p *models.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Name:        p.Name,
		Description: p.Description,
		TrackSource: p.TrackSource,
		Filters:     p.Filters,
		TrackCount:  len(p.Tracks),
	}
}

// PlaylistDetailResponse includes the playlist's tracks in order.
type PlaylistDetailResponse struct {
	PlaylistResponse
	Tracks []PlaylistTrackResponse `json:"tracks"`
}

// TrackInputRequest describes a track snapshot in create/add requests.
type TrackInputRequest struct {
	ID       int64    `json:"id" doc:"Track ID in the source library" minimum:"1"`
	FilePath string   `json:"file_path" doc:"Absolute path to the audio file" minLength:"1"`
	Duration *float64 `json:"duration,omitempty" doc:"Track length in seconds"`
	Artist   *string  `json:"artist,omitempty" maxLength:"512"`
	Title    *string  `json:"title,omitempty" maxLength:"512"`
	Album    *string  `json:"album,omitempty" maxLength:"512"`
	Genre    *string  `json:"genre,omitempty" maxLength:"255"`
	BPM      *float64 `json:"bpm,omitempty"`
	Key      *string  `json:"key,omitempty" maxLength:"32"`
}

// ToInput converts the request to a repository track input.
func (r *TrackInputRequest) ToInput() repository.TrackInput {
	return repository.TrackInput{
		ID:       r.ID,
		FilePath: r.FilePath,
		Duration: r.Duration,
		Artist:   r.Artist,
		Title:    r.Title,
		Album:    r.Album,
		Genre:    r.Genre,
		BPM:      r.BPM,
		Key:      r.Key,
	}
}

// CreatePlaylistRequest is the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name        string              `json:"name" doc:"Playlist name" minLength:"1" maxLength:"255"`
	Description string              `json:"description,omitempty" doc:"Optional description" maxLength:"1024"`
	TrackSource models.TrackSource  `json:"track_source,omitempty" doc:"Library the tracks come from" enum:"mixxx,rekordbox"`
	Tracks      []TrackInputRequest `json:"tracks,omitempty" doc:"Initial tracks in playlist order"`
}

// UpdatePlaylistRequest is the request body for renaming a playlist.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name,omitempty" doc:"New playlist name" maxLength:"255"`
	Description *string `json:"description,omitempty" doc:"New description" maxLength:"1024"`
}

// Library types

// LibraryTrackResponse represents a library track in API responses.
type LibraryTrackResponse struct {
	ID       int64    `json:"id"`
	Artist   *string  `json:"artist,omitempty"`
	Title    *string  `json:"title,omitempty"`
	Album    *string  `json:"album,omitempty"`
	Genre    *string  `json:"genre,omitempty"`
	Grouping *string  `json:"grouping,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	BPM      *float64 `json:"bpm,omitempty"`
	Key      *string  `json:"key,omitempty"`
	FilePath string   `json:"file_path"`
}

// LibraryTrackFromModel converts a library track to a response.
func LibraryTrackFromModel(t *library.Track) LibraryTrackResponse {
	return LibraryTrackResponse{
		ID:       t.ID,
		Artist:   t.Artist,
		Title:    t.Title,
		Album:    t.Album,
		Genre:    t.Genre,
		Grouping: t.Grouping,
		Duration: t.Duration,
		BPM:      t.BPM,
		Key:      t.Key,
		FilePath: t.FilePath,
	}
}

// CrateResponse represents a library crate in API responses.
type CrateResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TrackCount int64  `json:"track_count"`
}

// LibraryPlaylistResponse represents a playlist stored in the source library.
type LibraryPlaylistResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LibraryStatsResponse summarizes the connected library.
type LibraryStatsResponse struct {
	TrackCount  int64    `json:"track_count"`
	ArtistCount int64    `json:"artist_count"`
	GenreCount  int64    `json:"genre_count"`
	CrateCount  int64    `json:"crate_count"`
	AverageBPM  *float64 `json:"average_bpm,omitempty"`
}

// Backup types

// BackupResponse represents a backup in API responses.
type BackupResponse struct {
	Filename       string    `json:"filename"`
	CreatedAt      time.Time `json:"created_at"`
	FileSize       int64     `json:"file_size"`
	Checksum       string    `json:"checksum,omitempty"`
	AppVersion     string    `json:"app_version,omitempty"`
	DatabaseSize   int64     `json:"database_size,omitempty"`
	CompressedSize int64     `json:"compressed_size,omitempty"`
}

// BackupFromModel converts a backup metadata model to a response.
func BackupFromModel(m *models.BackupMetadata) BackupResponse {
	return BackupResponse{
		Filename:       m.Filename,
		CreatedAt:      m.CreatedAt,
		FileSize:       m.FileSize,
		Checksum:       m.Checksum,
		AppVersion:     m.AppVersion,
		DatabaseSize:   m.DatabaseSize,
		CompressedSize: m.CompressedSize,
	}
}
