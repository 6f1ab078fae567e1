package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beatbrain/beatbrain/internal/models"
)

// playlistRepo implements PlaylistRepository using GORM.
type playlistRepo struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(db *gorm.DB) *playlistRepo {
	return &playlistRepo{db: db}
}

// Create inserts the playlist row and one playlist_tracks row per input
// track inside a single transaction. Positions are assigned from the
// zero-based input index.
func (r *playlistRepo) Create(ctx context.Context, name, description string, source models.TrackSource, tracks []TrackInput) (int64, error) {
	playlist := &models.Playlist{
		Name:        name,
		Description: description,
		TrackSource: source,
	}
	if err := playlist.Validate(); err != nil {
		return 0, err
	}
	for i := range tracks {
		if err := validateTrackInput(tracks[i]); err != nil {
			return 0, err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(playlist).Error; err != nil {
			return fmt.Errorf("creating playlist: %w", err)
		}

		for i, input := range tracks {
			track := trackFromInput(playlist.ID, input, i)
			if err := tx.Create(&track).Error; err != nil {
				return fmt.Errorf("creating playlist track %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return playlist.ID, nil
}

// GetByID retrieves a playlist with its tracks ordered by position ascending.
func (r *playlistRepo) GetByID(ctx context.Context, id int64) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("playlist", id)
		}
		return nil, fmt.Errorf("getting playlist by id: %w", err)
	}

	tracks, err := r.GetTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist.Tracks = tracks

	return &playlist, nil
}

// GetTracks retrieves a playlist's tracks ordered by position ascending.
// Returns an empty slice when the playlist has no tracks.
func (r *playlistRepo) GetTracks(ctx context.Context, playlistID int64) ([]models.PlaylistTrack, error) {
	tracks := make([]models.PlaylistTrack, 0)
	if err := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID).
		Order("position ASC").
		Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("getting playlist tracks: %w", err)
	}
	return tracks, nil
}

// GetAll retrieves all playlists, most recently created first, with their
// tracks in position order.
func (r *playlistRepo) GetAll(ctx context.Context) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	if err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("getting playlists: %w", err)
	}
	return playlists, nil
}

// Update applies a partial update; only supplied fields are modified and
// updated_at is always refreshed.
func (r *playlistRepo) Update(ctx context.Context, id int64, update PlaylistUpdate) error {
	fields := map[string]any{"updated_at": time.Now()}
	if update.Name != nil {
		if *update.Name == "" {
			return models.ValidationError{Field: "name", Message: "name is required"}
		}
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}

	result := r.db.WithContext(ctx).
		Model(&models.Playlist{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("updating playlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFound("playlist", id)
	}
	return nil
}

// UpdateTrackPosition verifies the track belongs to the playlist, then sets
// its position. Positions are not renumbered for other tracks.
func (r *playlistRepo) UpdateTrackPosition(ctx context.Context, playlistID, trackID int64, position int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var track models.PlaylistTrack
		err := tx.Where("id = ? AND playlist_id = ?", trackID, playlistID).First(&track).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFound("playlist track", trackID)
			}
			return fmt.Errorf("getting playlist track: %w", err)
		}

		if err := tx.Model(&track).Updates(map[string]any{
			"position":   position,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("updating track position: %w", err)
		}

		return touchPlaylist(tx, playlistID)
	})
}

// AddTrack appends one track to the end of the playlist. The new position
// is the current maximum plus one, or 0 when the playlist is empty, which
// keeps appends consistent with Create's zero-based indexing.
func (r *playlistRepo) AddTrack(ctx context.Context, playlistID int64, input TrackInput) (*models.PlaylistTrack, error) {
	if err := validateTrackInput(input); err != nil {
		return nil, err
	}

	var track models.PlaylistTrack
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Playlist{}).Where("id = ?", playlistID).Count(&exists).Error; err != nil {
			return fmt.Errorf("checking playlist: %w", err)
		}
		if exists == 0 {
			return models.NewNotFound("playlist", playlistID)
		}

		var maxPosition *int
		if err := tx.Model(&models.PlaylistTrack{}).
			Where("playlist_id = ?", playlistID).
			Select("MAX(position)").
			Scan(&maxPosition).Error; err != nil {
			return fmt.Errorf("getting max position: %w", err)
		}

		position := 0
		if maxPosition != nil {
			position = *maxPosition + 1
		}

		track = trackFromInput(playlistID, input, position)
		if err := tx.Create(&track).Error; err != nil {
			return fmt.Errorf("creating playlist track: %w", err)
		}

		return touchPlaylist(tx, playlistID)
	})
	if err != nil {
		return nil, err
	}

	return &track, nil
}

// RemoveTrack deletes the track scoped to both ids. Positions of the
// remaining tracks are left untouched.
func (r *playlistRepo) RemoveTrack(ctx context.Context, playlistID, trackID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND playlist_id = ?", trackID, playlistID).
			Delete(&models.PlaylistTrack{})
		if result.Error != nil {
			return fmt.Errorf("removing playlist track: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFound("playlist track", trackID)
		}

		return touchPlaylist(tx, playlistID)
	})
}

// Delete removes a playlist and all its tracks in one transaction.
// Existence is verified before anything is deleted.
func (r *playlistRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Playlist{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return fmt.Errorf("checking playlist: %w", err)
		}
		if exists == 0 {
			return models.NewNotFound("playlist", id)
		}

		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistTrack{}).Error; err != nil {
			return fmt.Errorf("deleting playlist tracks: %w", err)
		}
		if err := tx.Delete(&models.Playlist{}, id).Error; err != nil {
			return fmt.Errorf("deleting playlist: %w", err)
		}
		return nil
	})
}

// SetFilters records the serialized filter payload on the playlist row.
func (r *playlistRepo) SetFilters(ctx context.Context, id int64, filters models.TrackFilters) error {
	encoded, err := filters.Encode()
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.Playlist{}).
		Where("id = ?", id).
		Updates(map[string]any{"filters": encoded, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("setting playlist filters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFound("playlist", id)
	}
	return nil
}

// touchPlaylist refreshes a playlist's updated_at after its tracks change.
func touchPlaylist(tx *gorm.DB, playlistID int64) error {
	if err := tx.Model(&models.Playlist{}).
		Where("id = ?", playlistID).
		Update("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("refreshing playlist timestamp: %w", err)
	}
	return nil
}

// validateTrackInput enforces the minimum snapshot: library id + file path.
func validateTrackInput(input TrackInput) error {
	if input.ID == 0 {
		return models.ValidationError{Field: "id", Message: "track id is required"}
	}
	if input.FilePath == "" {
		return models.ValidationError{Field: "file_path", Message: "file_path is required"}
	}
	return nil
}

// trackFromInput builds the denormalized snapshot row for one input track.
func trackFromInput(playlistID int64, input TrackInput, position int) models.PlaylistTrack {
	return models.PlaylistTrack{
		PlaylistID:    playlistID,
		SourceTrackID: input.ID,
		FilePath:      input.FilePath,
		Duration:      input.Duration,
		Artist:        input.Artist,
		Title:         input.Title,
		Album:         input.Album,
		Genre:         input.Genre,
		BPM:           input.BPM,
		Key:           input.Key,
		Position:      position,
	}
}

// Ensure playlistRepo implements PlaylistRepository at compile time.
var _ PlaylistRepository = (*playlistRepo)(nil)
