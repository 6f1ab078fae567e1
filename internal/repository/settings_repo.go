package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beatbrain/beatbrain/internal/models"
)

// settingsRepo implements SettingsRepository using GORM.
type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *gorm.DB) *settingsRepo {
	return &settingsRepo{db: db}
}

// Get returns the value for key, or ok=false when absent.
func (r *settingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting setting: %w", err)
	}
	return setting.Value, true, nil
}

// GetAll returns all settings as a key to value map.
func (r *settingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

// Set upserts a setting, overwriting the value and timestamp when the key
// already exists.
func (r *settingsRepo) Set(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := setting.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Delete removes a setting. A missing key is treated as success.
func (r *settingsRepo) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Setting{}).Error; err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}

// SaveSearchFilters serializes and stores the library search filters under
// the fixed searchFilters key.
func (r *settingsRepo) SaveSearchFilters(ctx context.Context, filters models.SearchFilters) error {
	encoded, err := filters.Encode()
	if err != nil {
		return err
	}
	return r.Set(ctx, models.SettingKeySearchFilters, encoded)
}

// SaveTrackFilters serializes and stores the playlist-builder filters under
// the fixed trackFilters key.
func (r *settingsRepo) SaveTrackFilters(ctx context.Context, filters models.TrackFilters) error {
	encoded, err := filters.Encode()
	if err != nil {
		return err
	}
	return r.Set(ctx, models.SettingKeyTrackFilters, encoded)
}

// TrackFilters returns the raw serialized filter payload; the caller
// deserializes via models.DecodeTrackFilters.
func (r *settingsRepo) TrackFilters(ctx context.Context) (string, bool, error) {
	return r.Get(ctx, models.SettingKeyTrackFilters)
}

// LastExportPath returns the directory recorded by the most recent export.
func (r *settingsRepo) LastExportPath(ctx context.Context) (string, bool, error) {
	return r.Get(ctx, models.SettingKeyLastExportPath)
}

// SetLastExportPath records the directory of the most recent export.
func (r *settingsRepo) SetLastExportPath(ctx context.Context, path string) error {
	return r.Set(ctx, models.SettingKeyLastExportPath, path)
}

// Ensure settingsRepo implements SettingsRepository at compile time.
var _ SettingsRepository = (*settingsRepo)(nil)
