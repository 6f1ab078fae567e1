package models

// TrackSource identifies the origin system for playlist tracks.
type TrackSource string

const (
	// TrackSourceMixxx is the Mixxx library database.
	TrackSourceMixxx TrackSource = "mixxx"

	// TrackSourceRekordbox is reserved for future rekordbox support.
	TrackSourceRekordbox TrackSource = "rekordbox"
)

// Valid reports whether the track source is a known value.
func (s TrackSource) Valid() bool {
	return s == TrackSourceMixxx || s == TrackSourceRekordbox
}

// Playlist represents a user-assembled playlist stored in the application
// database. Its tracks carry denormalized library metadata so the playlist
// stays usable when the external library is disconnected or changes.
type Playlist struct {
	Model

	// Name is a human-readable name for this playlist.
	Name string `gorm:"size:255;not null" json:"name"`

	// Description provides additional details about the playlist.
	Description string `gorm:"size:1024" json:"description,omitempty"`

	// TrackSource identifies the library the tracks were sourced from.
	TrackSource TrackSource `gorm:"size:20;not null;default:'mixxx';check:track_source IN ('mixxx','rekordbox')" json:"track_source"`

	// Filters optionally records the serialized filter payload this playlist
	// was generated from. Stored as opaque JSON text at the storage boundary;
	// deserialize with DecodeTrackFilters.
	Filters string `gorm:"type:text" json:"filters,omitempty"`

	// Tracks is the ordered track membership.
	Tracks []PlaylistTrack `gorm:"constraint:OnDelete:CASCADE" json:"tracks,omitempty"`
}

// TableName returns the table name for the Playlist model.
func (Playlist) TableName() string {
	return "playlists"
}

// Validate checks if the playlist is valid.
func (p *Playlist) Validate() error {
	if p.Name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if p.TrackSource == "" {
		p.TrackSource = TrackSourceMixxx
	}
	if !p.TrackSource.Valid() {
		return ValidationError{Field: "track_source", Message: "track_source must be 'mixxx' or 'rekordbox'"}
	}
	return nil
}

// PlaylistTrack is one ordered playlist entry carrying a denormalized
// snapshot of track metadata taken at the moment the track was added.
// Optional metadata is stored as NULL when the library did not supply it,
// which export logic distinguishes from empty strings.
type PlaylistTrack struct {
	Model

	// PlaylistID is the owning playlist.
	PlaylistID int64 `gorm:"not null;index:idx_playlist_track_position" json:"playlist_id"`

	// SourceTrackID is the track's id in the external library.
	SourceTrackID int64 `gorm:"not null" json:"source_track_id"`

	// FilePath is the track's location on disk, copied from the library.
	FilePath string `gorm:"size:1024;not null" json:"file_path"`

	Duration *float64 `json:"duration,omitempty"`
	Artist   *string  `gorm:"size:255" json:"artist,omitempty"`
	Title    *string  `gorm:"size:255" json:"title,omitempty"`
	Album    *string  `gorm:"size:255" json:"album,omitempty"`
	Genre    *string  `gorm:"size:255" json:"genre,omitempty"`
	BPM      *float64 `gorm:"column:bpm" json:"bpm,omitempty"`
	Key      *string  `gorm:"size:32;column:key" json:"key,omitempty"`

	// Position establishes ordering within the playlist. Positions are
	// 0-based and gap-tolerant: removing a track does not renumber the
	// remainder, only the relative order matters.
	Position int `gorm:"not null;index:idx_playlist_track_position" json:"position"`
}

// TableName returns the table name for the PlaylistTrack model.
func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}

// Validate checks if the playlist track snapshot is valid.
func (t *PlaylistTrack) Validate() error {
	if t.SourceTrackID == 0 {
		return ValidationError{Field: "source_track_id", Message: "source_track_id is required"}
	}
	if t.FilePath == "" {
		return ValidationError{Field: "file_path", Message: "file_path is required"}
	}
	return nil
}
