package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/internal/repository"
	"github.com/beatbrain/beatbrain/internal/service"
	"github.com/beatbrain/beatbrain/pkg/format"
	"github.com/beatbrain/beatbrain/pkg/m3u"
)

var (
	playlistDescription string
	playlistImportName  string
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Inspect and export playlists",
	Long:  `Commands for listing, inspecting and exporting beatbrain playlists without the UI.`,
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all playlists",
	RunE:  runPlaylistList,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a playlist and its tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistShow,
}

var playlistExportCmd = &cobra.Command{
	Use:   "export <id> [path]",
	Short: "Export a playlist as an Extended M3U file",
	Long: `Export a playlist as an Extended M3U file.

With no path the file is written to the last-used export directory, falling
back to the user's music directory. A directory path (or one ending in a
separator) gets a filename derived from the playlist name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPlaylistExport,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a playlist and its tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistDelete,
}

var playlistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an M3U file as a new playlist",
	Long: `Import an Extended M3U file as a new playlist.

Each entry is matched against the Mixxx library by file path to recover its
library id and metadata; entries with no matching library track are skipped
with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaylistImport,
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistShowCmd)
	playlistCmd.AddCommand(playlistExportCmd)
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistImportCmd)

	playlistCreateCmd.Flags().StringVar(&playlistDescription, "description", "", "playlist description")
	playlistImportCmd.Flags().StringVar(&playlistImportName, "name", "", "playlist name (defaults to the filename)")
}

func parsePlaylistID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("playlist id must be a positive integer, got %q", arg)
	}
	return id, nil
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	repo := repository.NewPlaylistRepository(db.DB)
	playlists, err := repo.GetAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing playlists: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tTRACKS\tUPDATED")
	for _, p := range playlists {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			p.ID, p.Name, p.TrackSource, len(p.Tracks), format.RelativeTime(p.UpdatedAt))
	}
	return w.Flush()
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	id, err := parsePlaylistID(args[0])
	if err != nil {
		return err
	}

	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	repo := repository.NewPlaylistRepository(db.DB)
	ctx := cmd.Context()

	playlist, err := repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("getting playlist: %w", err)
	}

	fmt.Printf("Name:        %s\n", playlist.Name)
	if playlist.Description != "" {
		fmt.Printf("Description: %s\n", playlist.Description)
	}
	fmt.Printf("Source:      %s\n", playlist.TrackSource)
	fmt.Printf("Tracks:      %d\n\n", len(playlist.Tracks))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tARTIST\tTITLE\tTIME\tBPM\tKEY\tPATH")
	for _, t := range playlist.Tracks {
		artist, title, length, bpm, key := "-", "-", "-", "-", "-"
		if t.Artist != nil {
			artist = *t.Artist
		}
		if t.Title != nil {
			title = *t.Title
		}
		if t.Duration != nil {
			length = format.TrackDuration(*t.Duration)
		}
		if t.BPM != nil {
			bpm = fmt.Sprintf("%.1f", *t.BPM)
		}
		if t.Key != nil {
			key = *t.Key
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", t.Position, artist, title, length, bpm, key, t.FilePath)
	}
	return w.Flush()
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	repo := repository.NewPlaylistRepository(db.DB)
	id, err := repo.Create(cmd.Context(), args[0], playlistDescription, models.TrackSourceMixxx, nil)
	if err != nil {
		return fmt.Errorf("creating playlist: %w", err)
	}

	fmt.Printf("created playlist %d\n", id)
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	id, err := parsePlaylistID(args[0])
	if err != nil {
		return err
	}

	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	repo := repository.NewPlaylistRepository(db.DB)
	if err := repo.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}

	fmt.Printf("deleted playlist %d\n", id)
	return nil
}

func runPlaylistImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening playlist file: %w", err)
	}
	defer f.Close()

	entries, err := m3u.ParseAll(f)
	if err != nil {
		return fmt.Errorf("parsing playlist file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no entries found in %s", args[0])
	}

	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	ctx := cmd.Context()

	var (
		tracks  []repository.TrackInput
		skipped int
	)
	for _, entry := range entries {
		track, err := reader.TrackByPath(ctx, entry.Path)
		if err != nil {
			var notFound models.NotFoundError
			if errors.As(err, &notFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: not in library, skipping %s\n", entry.Path)
				skipped++
				continue
			}
			return fmt.Errorf("matching %s: %w", entry.Path, err)
		}
		tracks = append(tracks, repository.TrackInput{
			ID:       track.ID,
			FilePath: track.FilePath,
			Duration: track.Duration,
			Artist:   track.Artist,
			Title:    track.Title,
			Album:    track.Album,
			Genre:    track.Genre,
			BPM:      track.BPM,
			Key:      track.Key,
		})
	}
	if len(tracks) == 0 {
		return fmt.Errorf("none of the %d entries matched a library track", len(entries))
	}

	name := playlistImportName
	if name == "" {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	repo := repository.NewPlaylistRepository(db.DB)
	id, err := repo.Create(ctx, name, "", models.TrackSourceMixxx, tracks)
	if err != nil {
		return fmt.Errorf("creating playlist: %w", err)
	}

	fmt.Printf("imported %d tracks into playlist %d (%d skipped)\n", len(tracks), id, skipped)
	return nil
}

func runPlaylistExport(cmd *cobra.Command, args []string) error {
	id, err := parsePlaylistID(args[0])
	if err != nil {
		return err
	}

	_, db, closeFn, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeFn()

	playlistRepo := repository.NewPlaylistRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	exports := service.NewExportService(playlistRepo, settingsRepo)

	ctx := cmd.Context()

	destPath := ""
	if len(args) == 2 {
		destPath = args[1]
	} else {
		playlist, err := playlistRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("getting playlist: %w", err)
		}
		destPath, err = exports.DefaultExportPath(ctx, playlist.Name)
		if err != nil {
			return fmt.Errorf("resolving export path: %w", err)
		}
	}

	result, err := exports.ExportToFile(ctx, id, destPath)
	if err != nil {
		return fmt.Errorf("exporting playlist: %w", err)
	}

	fmt.Printf("exported %d tracks to %s\n", result.TrackCount, result.Path)
	return nil
}
