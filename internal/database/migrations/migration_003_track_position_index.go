package migrations

import (
	"gorm.io/gorm"
)

// migration003TrackPositionIndex adds the composite (playlist_id, position)
// index used by ordered track reads and the append-position lookup.
func migration003TrackPositionIndex() Migration {
	return Migration{
		Version: 3,
		Name:    "add playlist/position index to playlist_tracks",
		Up: func(tx *gorm.DB) error {
			return tx.Exec(
				"CREATE INDEX IF NOT EXISTS idx_playlist_track_position ON playlist_tracks(playlist_id, position)",
			).Error
		},
		Down: func(tx *gorm.DB) error {
			return tx.Exec("DROP INDEX IF EXISTS idx_playlist_track_position").Error
		},
	}
}
