// Package m3u provides Extended M3U playlist writing and parsing for local
// music files.
package m3u

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// Defaults used when a track snapshot is missing metadata.
const (
	UnknownArtist = "Unknown Artist"
	UnknownTitle  = "Unknown Title"
)

// ErrNoTracks indicates an export was attempted with an empty track list.
var ErrNoTracks = errors.New("cannot generate M3U for an empty track list")

// Entry represents a single track entry in an M3U playlist.
// Nil metadata fields fall back to the Unknown defaults when written.
type Entry struct {
	// Duration is the track length in seconds; nil means unknown (0).
	Duration *float64

	// Artist and Title form the EXTINF display name.
	Artist *string
	Title  *string

	// Path is the track's file path on disk.
	Path string
}

// Writer provides streaming Extended M3U playlist writing.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter creates a new M3U writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the #EXTM3U header and the playlist comment block.
func (w *Writer) WriteHeader(name string, generatedAt time.Time, trackCount int) error {
	if w.headerWritten {
		return nil
	}
	if _, err := fmt.Fprintf(w.w, "#EXTM3U\n# Playlist: %s\n# Generated: %s\n# Tracks: %d\n",
		name, generatedAt.UTC().Format(time.RFC3339), trackCount); err != nil {
		return fmt.Errorf("writing M3U header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// WriteEntry writes a single track entry: the EXTINF line with rounded
// duration and "Artist - Title", then the file path line.
func (w *Writer) WriteEntry(entry *Entry) error {
	duration := 0
	if entry.Duration != nil {
		duration = int(math.Round(*entry.Duration))
	}

	artist := UnknownArtist
	if entry.Artist != nil && *entry.Artist != "" {
		artist = *entry.Artist
	}
	title := UnknownTitle
	if entry.Title != nil && *entry.Title != "" {
		title = *entry.Title
	}

	if _, err := fmt.Fprintf(w.w, "#EXTINF:%d,%s - %s\n", duration, artist, title); err != nil {
		return fmt.Errorf("writing EXTINF: %w", err)
	}
	if _, err := fmt.Fprintln(w.w, entry.Path); err != nil {
		return fmt.Errorf("writing path: %w", err)
	}
	return nil
}

// Generate renders a complete Extended M3U playlist as a string.
// An empty entries slice is a validation failure.
func Generate(name string, generatedAt time.Time, entries []*Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoTracks
	}

	var sb strings.Builder
	w := NewWriter(&sb)
	if err := w.WriteHeader(name, generatedAt, len(entries)); err != nil {
		return "", err
	}
	for _, entry := range entries {
		if err := w.WriteEntry(entry); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
