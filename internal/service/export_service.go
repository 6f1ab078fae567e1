// Package service provides the business logic layer for beatbrain operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/repository"
	"github.com/beatbrain/beatbrain/pkg/m3u"
)

// ExportService generates Extended M3U renditions of stored playlists and
// writes them to disk.
type ExportService struct {
	playlistRepo repository.PlaylistRepository
	settingsRepo repository.SettingsRepository
	logger       *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(playlistRepo repository.PlaylistRepository, settingsRepo repository.SettingsRepository) *ExportService {
	return &ExportService{
		playlistRepo: playlistRepo,
		settingsRepo: settingsRepo,
		logger:       slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *ExportService) WithLogger(logger *slog.Logger) *ExportService {
	s.logger = logger
	return s
}

// ExportResult describes a completed playlist export.
type ExportResult struct {
	PlaylistID int64     `json:"playlist_id"`
	Path       string    `json:"path"`
	TrackCount int       `json:"track_count"`
	ExportedAt time.Time `json:"exported_at"`
}

// GenerateM3U renders a playlist's tracks as Extended M3U content without
// touching the filesystem. An empty playlist is an error.
func (s *ExportService) GenerateM3U(ctx context.Context, playlistID int64) (string, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return "", err
	}

	tracks, err := s.playlistRepo.GetTracks(ctx, playlistID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", models.ErrEmptyPlaylist
	}

	entries := make([]*m3u.Entry, len(tracks))
	for i, track := range tracks {
		entries[i] = &m3u.Entry{
			Duration: track.Duration,
			Artist:   track.Artist,
			Title:    track.Title,
			Path:     track.FilePath,
		}
	}

	content, err := m3u.Generate(playlist.Name, time.Now(), entries)
	if err != nil {
		return "", fmt.Errorf("generating M3U for playlist %d: %w", playlistID, err)
	}
	return content, nil
}

// ExportToFile renders a playlist and writes the M3U file to destPath.
// When destPath is a directory, the file name is derived from the playlist
// name. The destination directory of a successful export is remembered as
// the default for the next one.
func (s *ExportService) ExportToFile(ctx context.Context, playlistID int64, destPath string) (*ExportResult, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	content, err := s.GenerateM3U(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	path, err := s.resolveDestination(destPath, playlist.Name)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing M3U file: %w", err)
	}

	if err := s.settingsRepo.SetLastExportPath(ctx, filepath.Dir(path)); err != nil {
		s.logger.Warn("failed to remember export path", slog.String("error", err.Error()))
	}

	trackCount := strings.Count(content, "#EXTINF:")
	s.logger.Info("exported playlist",
		slog.Int64("playlist_id", playlistID),
		slog.String("path", path),
		slog.Int("tracks", trackCount))

	return &ExportResult{
		PlaylistID: playlistID,
		Path:       path,
		TrackCount: trackCount,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// DefaultExportPath suggests a destination for a playlist export, preferring
// the directory of the previous export.
func (s *ExportService) DefaultExportPath(ctx context.Context, playlistName string) (string, error) {
	dir, ok, err := s.settingsRepo.LastExportPath(ctx)
	if err != nil {
		return "", err
	}
	if !ok || dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, "Music")
	}
	return filepath.Join(dir, sanitizeFilename(playlistName)+".m3u"), nil
}

func (s *ExportService) resolveDestination(destPath, playlistName string) (string, error) {
	if destPath == "" {
		return "", fmt.Errorf("export destination is required")
	}
	info, err := os.Stat(destPath)
	if err == nil && info.IsDir() {
		return filepath.Join(destPath, sanitizeFilename(playlistName)+".m3u"), nil
	}
	if strings.HasSuffix(destPath, string(os.PathSeparator)) {
		return filepath.Join(destPath, sanitizeFilename(playlistName)+".m3u"), nil
	}
	return destPath, nil
}

// sanitizeFilename replaces characters that are unsafe in file names on any
// supported platform.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		cleaned = "playlist"
	}
	return cleaned
}
