// Package library provides read-only access to an external Mixxx library
// database. The connection is opened and closed by user action and may be
// absent entirely; playlist browsing keeps working against previously
// denormalized snapshots.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beatbrain/beatbrain/internal/models"
)

// ErrNotConnected indicates a query was issued without an open library
// connection.
var ErrNotConnected = errors.New("library is not connected")

// ConnectResult is the structured outcome of a connection attempt. A failed
// connect is not a thrown error: the UI uses the Error text to prompt for
// reconnection.
type ConnectResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Reader reads tracks, crates and playlists from a Mixxx database.
type Reader struct {
	mu      sync.Mutex
	db      *gorm.DB
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewReader creates a library reader. Queries fail with ErrNotConnected
// until Connect succeeds.
func NewReader(timeout time.Duration, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Reader{timeout: timeout, logger: log}
}

// Connect opens the Mixxx database read-only. The file must exist and pass
// a smoke-test query within the configured timeout. An empty path means the
// platform default location.
func (r *Reader) Connect(ctx context.Context, path string) *ConnectResult {
	if path == "" {
		path = DefaultDatabasePath()
	}

	if _, err := os.Stat(path); err != nil {
		return &ConnectResult{Success: false, Path: path, Error: fmt.Sprintf("library database not readable: %v", err)}
	}

	// query_only rejects any write that would slip through; the Mixxx
	// database is never ours to modify.
	dsn := path +
		"?_pragma=busy_timeout(2000)" +
		"&_pragma=query_only(1)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return &ConnectResult{Success: false, Path: path, Error: fmt.Sprintf("opening library database: %v", err)}
	}

	smokeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := db.WithContext(smokeCtx).Table("library").Count(&count).Error; err != nil {
		closeGorm(db)
		return &ConnectResult{Success: false, Path: path, Error: fmt.Sprintf("library database failed verification: %v", err)}
	}

	r.mu.Lock()
	if r.db != nil {
		closeGorm(r.db)
	}
	r.db = db
	r.path = path
	r.mu.Unlock()

	r.logger.Info("library connected",
		slog.String("path", path),
		slog.Int64("tracks", count),
	)

	return &ConnectResult{Success: true, Path: path}
}

// Disconnect closes the library connection. Safe to call when not connected.
func (r *Reader) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		closeGorm(r.db)
		r.db = nil
		r.path = ""
		r.logger.Info("library disconnected")
	}
}

// Connected reports whether a library connection is open.
func (r *Reader) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db != nil
}

// Path returns the connected database path, or "" when disconnected.
func (r *Reader) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// conn returns the open handle or ErrNotConnected.
func (r *Reader) conn() (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil, ErrNotConnected
	}
	return r.db, nil
}

// Track is one row from the Mixxx library joined with its file location.
// Optional metadata mirrors Mixxx's nullable columns.
type Track struct {
	ID       int64    `gorm:"column:id" json:"id"`
	Artist   *string  `gorm:"column:artist" json:"artist,omitempty"`
	Title    *string  `gorm:"column:title" json:"title,omitempty"`
	Album    *string  `gorm:"column:album" json:"album,omitempty"`
	Genre    *string  `gorm:"column:genre" json:"genre,omitempty"`
	Grouping *string  `gorm:"column:grouping" json:"grouping,omitempty"`
	BPM      *float64 `gorm:"column:bpm" json:"bpm,omitempty"`
	Key      *string  `gorm:"column:key" json:"key,omitempty"`
	Duration *float64 `gorm:"column:duration" json:"duration,omitempty"`
	FilePath string   `gorm:"column:file_path" json:"file_path"`
}

// Crate is a named, unordered grouping of tracks in the library.
type Crate struct {
	ID    int64  `gorm:"column:id" json:"id"`
	Name  string `gorm:"column:name" json:"name"`
	Count int64  `gorm:"column:track_count" json:"track_count"`
}

// Playlist is a playlist defined inside Mixxx itself.
type Playlist struct {
	ID   int64  `gorm:"column:id" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

// Stats summarizes the connected library.
type Stats struct {
	TrackCount  int64    `json:"track_count"`
	ArtistCount int64    `json:"artist_count"`
	GenreCount  int64    `json:"genre_count"`
	CrateCount  int64    `json:"crate_count"`
	AverageBPM  *float64 `json:"average_bpm,omitempty"`
}

// trackColumns selects library metadata plus the joined file path.
const trackColumns = "library.id, library.artist, library.title, library.album, " +
	"library.genre, library.grouping, library.bpm, library.key, library.duration, " +
	"track_locations.location AS file_path"

// SearchTracks returns library tracks matching the given filters, ordered
// by artist then title. Zero-valued filter fields are ignored.
func (r *Reader) SearchTracks(ctx context.Context, filters models.TrackFilters, limit int) ([]Track, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	q := db.WithContext(ctx).
		Table("library").
		Select(trackColumns).
		Joins("JOIN track_locations ON track_locations.id = library.location").
		Where("library.mixxx_deleted = 0")

	if filters.BPMMin != nil {
		q = q.Where("library.bpm >= ?", *filters.BPMMin)
	}
	if filters.BPMMax != nil {
		q = q.Where("library.bpm <= ?", *filters.BPMMax)
	}
	if filters.Genre != "" {
		q = q.Where("library.genre = ?", filters.Genre)
	}
	if filters.Key != "" {
		q = q.Where("library.key = ?", filters.Key)
	}
	if filters.Artist != "" {
		q = q.Where("library.artist LIKE ?", "%"+filters.Artist+"%")
	}
	if filters.Grouping != "" {
		q = q.Where("library.grouping = ?", filters.Grouping)
	}
	if filters.CrateID != nil {
		q = q.Joins("JOIN crate_tracks ON crate_tracks.track_id = library.id").
			Where("crate_tracks.crate_id = ?", *filters.CrateID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var tracks []Track
	if err := q.Order("library.artist ASC, library.title ASC").Scan(&tracks).Error; err != nil {
		return nil, fmt.Errorf("searching library tracks: %w", err)
	}
	return tracks, nil
}

// GetTrack returns a single library track by id.
func (r *Reader) GetTrack(ctx context.Context, id int64) (*Track, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var track Track
	result := db.WithContext(ctx).
		Table("library").
		Select(trackColumns).
		Joins("JOIN track_locations ON track_locations.id = library.location").
		Where("library.id = ?", id).
		Limit(1).
		Scan(&track)
	if result.Error != nil {
		return nil, fmt.Errorf("getting library track: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFound("library track", id)
	}
	return &track, nil
}

// TrackByPath returns the library track whose file location matches path
// exactly. Used when re-importing M3U files to recover library ids.
func (r *Reader) TrackByPath(ctx context.Context, path string) (*Track, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var track Track
	result := db.WithContext(ctx).
		Table("library").
		Select(trackColumns).
		Joins("JOIN track_locations ON track_locations.id = library.location").
		Where("track_locations.location = ? AND library.mixxx_deleted = 0", path).
		Limit(1).
		Scan(&track)
	if result.Error != nil {
		return nil, fmt.Errorf("getting library track by path: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFound("library track", path)
	}
	return &track, nil
}

// Genres returns the distinct non-empty genres in the library, sorted.
func (r *Reader) Genres(ctx context.Context) ([]string, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var genres []string
	if err := db.WithContext(ctx).
		Table("library").
		Distinct("genre").
		Where("genre IS NOT NULL AND genre != '' AND mixxx_deleted = 0").
		Order("genre ASC").
		Pluck("genre", &genres).Error; err != nil {
		return nil, fmt.Errorf("getting genres: %w", err)
	}
	return genres, nil
}

// Keys returns the distinct non-empty musical keys in the library, sorted.
func (r *Reader) Keys(ctx context.Context) ([]string, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var keys []string
	if err := db.WithContext(ctx).
		Table("library").
		Distinct("key").
		Where("key IS NOT NULL AND key != '' AND mixxx_deleted = 0").
		Order("key ASC").
		Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("getting keys: %w", err)
	}
	return keys, nil
}

// Crates returns all crates with their track counts, sorted by name.
func (r *Reader) Crates(ctx context.Context) ([]Crate, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var crates []Crate
	if err := db.WithContext(ctx).
		Table("crates").
		Select("crates.id, crates.name, COUNT(crate_tracks.track_id) AS track_count").
		Joins("LEFT JOIN crate_tracks ON crate_tracks.crate_id = crates.id").
		Group("crates.id, crates.name").
		Order("crates.name ASC").
		Scan(&crates).Error; err != nil {
		return nil, fmt.Errorf("getting crates: %w", err)
	}
	return crates, nil
}

// Playlists returns the playlists defined inside Mixxx, sorted by name.
func (r *Reader) Playlists(ctx context.Context) ([]Playlist, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var playlists []Playlist
	if err := db.WithContext(ctx).
		Table("Playlists").
		Select("id, name").
		Order("name ASC").
		Scan(&playlists).Error; err != nil {
		return nil, fmt.Errorf("getting library playlists: %w", err)
	}
	return playlists, nil
}

// PlaylistTracks returns the tracks of a Mixxx playlist in its stored order.
func (r *Reader) PlaylistTracks(ctx context.Context, playlistID int64) ([]Track, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var tracks []Track
	if err := db.WithContext(ctx).
		Table("library").
		Select(trackColumns).
		Joins("JOIN track_locations ON track_locations.id = library.location").
		Joins("JOIN PlaylistTracks ON PlaylistTracks.track_id = library.id").
		Where("PlaylistTracks.playlist_id = ?", playlistID).
		Order("PlaylistTracks.position ASC").
		Scan(&tracks).Error; err != nil {
		return nil, fmt.Errorf("getting library playlist tracks: %w", err)
	}
	return tracks, nil
}

// GetStats summarizes the connected library.
func (r *Reader) GetStats(ctx context.Context) (*Stats, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	var stats Stats
	q := db.WithContext(ctx).Table("library").Where("mixxx_deleted = 0")
	if err := q.Count(&stats.TrackCount).Error; err != nil {
		return nil, fmt.Errorf("counting tracks: %w", err)
	}
	if err := db.WithContext(ctx).
		Table("library").
		Where("mixxx_deleted = 0 AND artist IS NOT NULL AND artist != ''").
		Distinct("artist").
		Count(&stats.ArtistCount).Error; err != nil {
		return nil, fmt.Errorf("counting artists: %w", err)
	}
	if err := db.WithContext(ctx).
		Table("library").
		Where("mixxx_deleted = 0 AND genre IS NOT NULL AND genre != ''").
		Distinct("genre").
		Count(&stats.GenreCount).Error; err != nil {
		return nil, fmt.Errorf("counting genres: %w", err)
	}
	if err := db.WithContext(ctx).Table("crates").Count(&stats.CrateCount).Error; err != nil {
		return nil, fmt.Errorf("counting crates: %w", err)
	}
	if err := db.WithContext(ctx).
		Table("library").
		Where("mixxx_deleted = 0 AND bpm > 0").
		Select("AVG(bpm)").
		Scan(&stats.AverageBPM).Error; err != nil {
		return nil, fmt.Errorf("averaging bpm: %w", err)
	}

	return &stats, nil
}

// closeGorm closes the underlying sql.DB, ignoring close errors on a
// read-only handle.
func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
