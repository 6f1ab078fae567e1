package handlers

import (
	"context"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/repository"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Setting{},
		&models.UserPreference{},
		&models.Playlist{},
		&models.PlaylistTrack{},
	))
	return db
}

func newPlaylistHandler(t *testing.T) (*PlaylistHandler, repository.PlaylistRepository) {
	t.Helper()
	repo := repository.NewPlaylistRepository(setupHandlerDB(t))
	return NewPlaylistHandler(repo), repo
}

func trackRequest(id int64, artist, title string) TrackInputRequest {
	return TrackInputRequest{
		ID:       id,
		FilePath: "/music/track.flac",
		Artist:   models.StringPtr(artist),
		Title:    models.StringPtr(title),
		BPM:      models.Float64Ptr(128),
		Key:      models.StringPtr("8A"),
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, status, se.GetStatus())
}

func TestPlaylistHandler_CreateAndGet(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	created, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
		Body: CreatePlaylistRequest{
			Name:   "Warmup",
			Tracks: []TrackInputRequest{trackRequest(1, "Surgeon", "Magneze")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 201, created.Status)
	assert.Equal(t, "Warmup", created.Body.Name)
	assert.Equal(t, models.TrackSourceMixxx, created.Body.TrackSource)
	require.Len(t, created.Body.Tracks, 1)
	assert.Equal(t, 0, created.Body.Tracks[0].Position)

	got, err := handler.GetPlaylist(ctx, &GetPlaylistInput{ID: created.Body.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Body.ID, got.Body.ID)
	require.Len(t, got.Body.Tracks, 1)
	assert.Equal(t, "Surgeon", models.StringVal(got.Body.Tracks[0].Artist, ""))
}

func TestPlaylistHandler_CreateValidation(t *testing.T) {
	handler, _ := newPlaylistHandler(t)

	_, err := handler.CreatePlaylist(context.Background(), &CreatePlaylistInput{
		Body: CreatePlaylistRequest{Name: ""},
	})
	assertStatus(t, err, 422)
}

func TestPlaylistHandler_GetNotFound(t *testing.T) {
	handler, _ := newPlaylistHandler(t)

	_, err := handler.GetPlaylist(context.Background(), &GetPlaylistInput{ID: 99})
	assertStatus(t, err, 404)
}

func TestPlaylistHandler_List(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second"} {
		_, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
			Body: CreatePlaylistRequest{Name: name},
		})
		require.NoError(t, err)
	}

	resp, err := handler.ListPlaylists(ctx, &ListPlaylistsInput{})
	require.NoError(t, err)
	assert.Len(t, resp.Body.Playlists, 2)
}

func TestPlaylistHandler_Update(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	created, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
		Body: CreatePlaylistRequest{Name: "Old Name"},
	})
	require.NoError(t, err)

	t.Run("rename", func(t *testing.T) {
		resp, err := handler.UpdatePlaylist(ctx, &UpdatePlaylistInput{
			ID: created.Body.ID,
			Body: UpdatePlaylistRequest{
				Name: models.StringPtr("New Name"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Body.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := handler.UpdatePlaylist(ctx, &UpdatePlaylistInput{
			ID:   999,
			Body: UpdatePlaylistRequest{Name: models.StringPtr("x")},
		})
		assertStatus(t, err, 404)
	})
}

func TestPlaylistHandler_Delete(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	created, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
		Body: CreatePlaylistRequest{Name: "Doomed"},
	})
	require.NoError(t, err)

	resp, err := handler.DeletePlaylist(ctx, &DeletePlaylistInput{ID: created.Body.ID})
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)

	_, err = handler.GetPlaylist(ctx, &GetPlaylistInput{ID: created.Body.ID})
	assertStatus(t, err, 404)

	_, err = handler.DeletePlaylist(ctx, &DeletePlaylistInput{ID: created.Body.ID})
	assertStatus(t, err, 404)
}

func TestPlaylistHandler_TrackOperations(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	created, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
		Body: CreatePlaylistRequest{
			Name:   "Set",
			Tracks: []TrackInputRequest{trackRequest(1, "Surgeon", "Magneze")},
		},
	})
	require.NoError(t, err)
	playlistID := created.Body.ID

	added, err := handler.AddTrack(ctx, &AddTrackInput{
		ID:   playlistID,
		Body: trackRequest(2, "Hardfloor", "Acperience 1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 201, added.Status)
	assert.Equal(t, 1, added.Body.Position)

	listed, err := handler.ListTracks(ctx, &ListTracksInput{ID: playlistID})
	require.NoError(t, err)
	require.Len(t, listed.Body.Tracks, 2)

	move := &MoveTrackInput{ID: playlistID, TrackID: added.Body.ID}
	move.Body.Position = 0
	moved, err := handler.MoveTrack(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, 204, moved.Status)

	listed, err = handler.ListTracks(ctx, &ListTracksInput{ID: playlistID})
	require.NoError(t, err)
	assert.Equal(t, "Hardfloor", models.StringVal(listed.Body.Tracks[0].Artist, ""))

	removed, err := handler.RemoveTrack(ctx, &RemoveTrackInput{ID: playlistID, TrackID: added.Body.ID})
	require.NoError(t, err)
	assert.Equal(t, 204, removed.Status)

	listed, err = handler.ListTracks(ctx, &ListTracksInput{ID: playlistID})
	require.NoError(t, err)
	assert.Len(t, listed.Body.Tracks, 1)
}

func TestPlaylistHandler_TrackOperations_NotFound(t *testing.T) {
	handler, _ := newPlaylistHandler(t)
	ctx := context.Background()

	_, err := handler.AddTrack(ctx, &AddTrackInput{ID: 42, Body: trackRequest(1, "a", "b")})
	assertStatus(t, err, 404)

	_, err = handler.ListTracks(ctx, &ListTracksInput{ID: 42})
	assertStatus(t, err, 404)

	_, err = handler.RemoveTrack(ctx, &RemoveTrackInput{ID: 42, TrackID: 1})
	assertStatus(t, err, 404)
}

func TestPlaylistHandler_SetFilters(t *testing.T) {
	handler, repo := newPlaylistHandler(t)
	ctx := context.Background()

	created, err := handler.CreatePlaylist(ctx, &CreatePlaylistInput{
		Body: CreatePlaylistRequest{Name: "Filtered"},
	})
	require.NoError(t, err)

	resp, err := handler.SetFilters(ctx, &SetFiltersInput{
		ID: created.Body.ID,
		Body: models.TrackFilters{
			BPMMin: models.Float64Ptr(120),
			BPMMax: models.Float64Ptr(130),
			Genre:  "Techno",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)

	playlist, err := repo.GetByID(ctx, created.Body.ID)
	require.NoError(t, err)
	filters, err := models.DecodeTrackFilters(playlist.Filters)
	require.NoError(t, err)
	assert.Equal(t, "Techno", filters.Genre)

	_, err = handler.SetFilters(ctx, &SetFiltersInput{ID: 999})
	assertStatus(t, err, 404)
}
