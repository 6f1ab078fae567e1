package migrations

// AllMigrations returns all registered migrations in order.
// - 1: Schema creation using GORM AutoMigrate
// - 2: Add filters column to playlists (generated-from payload)
// - 3: Add composite playlist/position index to playlist_tracks
func AllMigrations() []Migration {
	return []Migration{
		migration001InitialSchema(),
		migration002PlaylistFilters(),
		migration003TrackPositionIndex(),
	}
}
