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

// preferencesRepo implements PreferencesRepository using GORM.
type preferencesRepo struct {
	db *gorm.DB
}

// NewPreferencesRepository creates a new PreferencesRepository.
func NewPreferencesRepository(db *gorm.DB) *preferencesRepo {
	return &preferencesRepo{db: db}
}

// Get returns the value for (category, key), or ok=false when absent.
func (r *preferencesRepo) Get(ctx context.Context, category, key string) (string, bool, error) {
	var pref models.UserPreference
	err := r.db.WithContext(ctx).
		Where("category = ? AND key = ?", category, key).
		First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("getting preference: %w", err)
	}
	return pref.Value, true, nil
}

// GetAll returns the key to value map for one category; other categories
// are excluded.
func (r *preferencesRepo) GetAll(ctx context.Context, category string) (map[string]string, error) {
	var prefs []models.UserPreference
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("getting preferences for category %q: %w", category, err)
	}

	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

// Set upserts a preference on the (category, key) unique pair. A second set
// with a different value overwrites the first (last write wins).
func (r *preferencesRepo) Set(ctx context.Context, category, key, value string) error {
	pref := models.UserPreference{
		Category:  category,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	if err := pref.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error; err != nil {
		return fmt.Errorf("setting preference %s/%s: %w", category, key, err)
	}
	return nil
}

// Ensure preferencesRepo implements PreferencesRepository at compile time.
var _ PreferencesRepository = (*preferencesRepo)(nil)
