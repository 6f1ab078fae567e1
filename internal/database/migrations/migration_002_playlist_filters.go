package migrations

import (
	"gorm.io/gorm"
)

// migration002PlaylistFilters adds the filters column to playlists, storing
// the serialized filter payload a playlist was generated from. Fresh
// installations already get the column from migration 1's AutoMigrate, so
// the ALTER is guarded.
func migration002PlaylistFilters() Migration {
	return Migration{
		Version: 2,
		Name:    "add filters column to playlists",
		Up: func(tx *gorm.DB) error {
			if !tx.Migrator().HasColumn("playlists", "filters") {
				return tx.Exec("ALTER TABLE playlists ADD COLUMN filters TEXT").Error
			}
			return nil
		},
		Down: func(tx *gorm.DB) error {
			if tx.Migrator().HasColumn("playlists", "filters") {
				return tx.Exec("ALTER TABLE playlists DROP COLUMN filters").Error
			}
			return nil
		},
	}
}
