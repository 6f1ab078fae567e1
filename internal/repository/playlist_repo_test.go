package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beatbrain/beatbrain/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Setting{},
		&models.UserPreference{},
		&models.Playlist{},
		&models.PlaylistTrack{},
	)
	require.NoError(t, err)

	return db
}

func testTrackInput(id int64, path string) TrackInput {
	return TrackInput{
		ID:       id,
		FilePath: path,
		Artist:   models.StringPtr("Artist"),
		Title:    models.StringPtr("Title"),
		BPM:      models.Float64Ptr(128),
	}
}

func TestPlaylistRepo_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Warmup", "opening set", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(10, "/music/a.mp3"),
		testTrackInput(11, "/music/b.mp3"),
		testTrackInput(12, "/music/c.mp3"),
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	playlist, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Warmup", playlist.Name)
	assert.Equal(t, "opening set", playlist.Description)
	assert.Equal(t, models.TrackSourceMixxx, playlist.TrackSource)

	// Positions follow the zero-based input order
	require.Len(t, playlist.Tracks, 3)
	for i, track := range playlist.Tracks {
		assert.Equal(t, i, track.Position)
	}
	assert.Equal(t, int64(10), playlist.Tracks[0].SourceTrackID)
	assert.Equal(t, "/music/c.mp3", playlist.Tracks[2].FilePath)
}

func TestPlaylistRepo_Create_EmptyTrackList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Empty", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	playlist, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, playlist.Tracks)
	assert.Empty(t, playlist.Tracks)
}

func TestPlaylistRepo_Create_Validation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		_, err := repo.Create(ctx, "", "", models.TrackSourceMixxx, nil)
		var ve models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := repo.Create(ctx, "Set", "", models.TrackSource("serato"), nil)
		var ve models.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("bad track rolls back playlist row", func(t *testing.T) {
		_, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, []TrackInput{
			{ID: 1, FilePath: ""},
		})
		require.Error(t, err)

		playlists, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, playlists)
	})
}

func TestPlaylistRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPlaylistRepo_GetAll_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "First", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "Second", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	// created_at has second precision in SQLite defaults; force distinct order
	require.NoError(t, db.Model(&models.Playlist{}).Where("id = ?", second).
		Update("created_at", gorm.Expr("datetime('now', '+1 hour')")).Error)

	playlists, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, second, playlists[0].ID)
	assert.Equal(t, first, playlists[1].ID)
}

func TestPlaylistRepo_GetAll_LoadsTracks(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "With Tracks", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(10, "/music/a.mp3"),
		testTrackInput(11, "/music/b.mp3"),
	})
	require.NoError(t, err)

	playlists, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	require.Len(t, playlists[0].Tracks, 2)
	assert.Equal(t, 0, playlists[0].Tracks[0].Position)
	assert.Equal(t, 1, playlists[0].Tracks[1].Position)
}

func TestPlaylistRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Before", "old", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		name := "After"
		require.NoError(t, repo.Update(ctx, id, PlaylistUpdate{Name: &name}))

		playlist, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "After", playlist.Name)
		assert.Equal(t, "old", playlist.Description)
	})

	t.Run("description can be cleared", func(t *testing.T) {
		empty := ""
		require.NoError(t, repo.Update(ctx, id, PlaylistUpdate{Description: &empty}))

		playlist, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "", playlist.Description)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		empty := ""
		err := repo.Update(ctx, id, PlaylistUpdate{Name: &empty})
		var ve models.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("missing playlist", func(t *testing.T) {
		name := "X"
		err := repo.Update(ctx, 999, PlaylistUpdate{Name: &name})
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})
}

func TestPlaylistRepo_AddTrack_AppendsAtEnd(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(1, "/music/a.mp3"),
		testTrackInput(2, "/music/b.mp3"),
	})
	require.NoError(t, err)

	track, err := repo.AddTrack(ctx, id, testTrackInput(3, "/music/c.mp3"))
	require.NoError(t, err)
	assert.Equal(t, 2, track.Position)
	assert.Equal(t, int64(3), track.SourceTrackID)
}

func TestPlaylistRepo_AddTrack_EmptyPlaylistStartsAtZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	track, err := repo.AddTrack(ctx, id, testTrackInput(1, "/music/a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, 0, track.Position)
}

func TestPlaylistRepo_AddTrack_MissingPlaylist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)

	_, err := repo.AddTrack(context.Background(), 999, testTrackInput(1, "/music/a.mp3"))
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPlaylistRepo_RemoveTrack_DoesNotRenumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(1, "/music/a.mp3"),
		testTrackInput(2, "/music/b.mp3"),
		testTrackInput(3, "/music/c.mp3"),
	})
	require.NoError(t, err)

	tracks, err := repo.GetTracks(ctx, id)
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	// Remove the middle track; remaining positions keep their gap
	require.NoError(t, repo.RemoveTrack(ctx, id, tracks[1].ID))

	remaining, err := repo.GetTracks(ctx, id)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].Position)
	assert.Equal(t, 2, remaining[1].Position)
}

func TestPlaylistRepo_RemoveTrack_ScopedToPlaylist(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "A", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(1, "/music/a.mp3"),
	})
	require.NoError(t, err)
	second, err := repo.Create(ctx, "B", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	tracks, err := repo.GetTracks(ctx, first)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	// Removing through the wrong playlist id must not delete anything
	err = repo.RemoveTrack(ctx, second, tracks[0].ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	tracks, err = repo.GetTracks(ctx, first)
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}

func TestPlaylistRepo_UpdateTrackPosition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(1, "/music/a.mp3"),
		testTrackInput(2, "/music/b.mp3"),
	})
	require.NoError(t, err)

	tracks, err := repo.GetTracks(ctx, id)
	require.NoError(t, err)

	// Move the first track after the second
	require.NoError(t, repo.UpdateTrackPosition(ctx, id, tracks[0].ID, 5))

	reordered, err := repo.GetTracks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tracks[1].ID, reordered[0].ID)
	assert.Equal(t, tracks[0].ID, reordered[1].ID)
	assert.Equal(t, 5, reordered[1].Position)
}

func TestPlaylistRepo_UpdateTrackPosition_MissingTrack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	err = repo.UpdateTrackPosition(ctx, id, 999, 0)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPlaylistRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, []TrackInput{
		testTrackInput(1, "/music/a.mp3"),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.GetByID(ctx, id)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	// Track rows are gone too
	var count int64
	require.NoError(t, db.Model(&models.PlaylistTrack{}).Where("playlist_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPlaylistRepo_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)

	err := repo.Delete(context.Background(), 999)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPlaylistRepo_SetFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "Set", "", models.TrackSourceMixxx, nil)
	require.NoError(t, err)

	filters := models.TrackFilters{
		BPMMin: models.Float64Ptr(120),
		BPMMax: models.Float64Ptr(128),
		Genre:  "Techno",
	}
	require.NoError(t, repo.SetFilters(ctx, id, filters))

	playlist, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	decoded, err := models.DecodeTrackFilters(playlist.Filters)
	require.NoError(t, err)
	assert.Equal(t, filters, decoded)
}

func TestPlaylistRepo_SetFilters_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)

	err := repo.SetFilters(context.Background(), 999, models.TrackFilters{Genre: "House"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
