package migrations

import (
	"gorm.io/gorm"

	"github.com/beatbrain/beatbrain/internal/models"
)

// migration001InitialSchema creates the application tables: app_settings,
// user_preferences, playlists and playlist_tracks.
func migration001InitialSchema() Migration {
	return Migration{
		Version: 1,
		Name:    "initial schema",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.Setting{},
				&models.UserPreference{},
				&models.Playlist{},
				&models.PlaylistTrack{},
			)
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&models.PlaylistTrack{},
				&models.Playlist{},
				&models.UserPreference{},
				&models.Setting{},
			)
		},
	}
}
