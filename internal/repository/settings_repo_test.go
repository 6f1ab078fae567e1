package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatbrain/beatbrain/internal/models"
)

func TestSettingsRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme", "dark"))

	value, ok, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestSettingsRepo_Get_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	value, ok, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSettingsRepo_Set_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme", "dark"))
	require.NoError(t, repo.Set(ctx, "theme", "light"))

	value, ok, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)

	// Still a single row
	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsRepo_Set_EmptyKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	err := repo.Set(context.Background(), "", "value")
	assert.Error(t, err)
}

func TestSettingsRepo_GetAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", "1"))
	require.NoError(t, repo.Set(ctx, "b", "2"))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)
}

func TestSettingsRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme", "dark"))
	require.NoError(t, repo.Delete(ctx, "theme"))

	_, ok, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op
	assert.NoError(t, repo.Delete(ctx, "theme"))
}

func TestSettingsRepo_TrackFilters_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	filters := models.TrackFilters{
		BPMMin: models.Float64Ptr(122),
		Genre:  "House",
		Key:    "5A",
	}
	require.NoError(t, repo.SaveTrackFilters(ctx, filters))

	raw, ok, err := repo.TrackFilters(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := models.DecodeTrackFilters(raw)
	require.NoError(t, err)
	assert.Equal(t, filters, decoded)
}

func TestSettingsRepo_TrackFilters_Unset(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	_, ok, err := repo.TrackFilters(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsRepo_SearchFilters_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	filters := models.SearchFilters{Query: "acid", Artist: "Hardfloor"}
	require.NoError(t, repo.SaveSearchFilters(ctx, filters))

	raw, ok, err := repo.Get(ctx, models.SettingKeySearchFilters)
	require.NoError(t, err)
	require.True(t, ok)

	decoded, err := models.DecodeSearchFilters(raw)
	require.NoError(t, err)
	assert.Equal(t, filters, decoded)
}

func TestSettingsRepo_LastExportPath(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	_, ok, err := repo.LastExportPath(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetLastExportPath(ctx, "/home/dj/Music"))

	path, ok, err := repo.LastExportPath(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/home/dj/Music", path)
}
