package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatbrain/beatbrain/internal/library"
	"github.com/beatbrain/beatbrain/internal/models"
	"github.com/beatbrain/beatbrain/pkg/format"
	"github.com/beatbrain/beatbrain/pkg/musickey"
)

var (
	libraryBPMMin   float64
	libraryBPMMax   float64
	libraryGenre    string
	libraryKey      string
	libraryArtist   string
	libraryCrateID  int64
	libraryLimit    int
	libraryHarmonic bool
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the Mixxx library",
	Long: `Commands for browsing the Mixxx library read-only from the terminal.

The library path comes from the --library flag on serve, the config file,
or the platform default Mixxx location when neither is set.`,
}

var libraryTracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Search tracks in the library",
	RunE:  runLibraryTracks,
}

var libraryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	RunE:  runLibraryStats,
}

var libraryCratesCmd = &cobra.Command{
	Use:   "crates",
	Short: "List crates in the library",
	RunE:  runLibraryCrates,
}

var libraryGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List genres in the library",
	RunE:  runLibraryGenres,
}

var libraryCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the library database is reachable",
	RunE:  runLibraryCheck,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryTracksCmd)
	libraryCmd.AddCommand(libraryStatsCmd)
	libraryCmd.AddCommand(libraryCratesCmd)
	libraryCmd.AddCommand(libraryGenresCmd)
	libraryCmd.AddCommand(libraryCheckCmd)

	libraryTracksCmd.Flags().Float64Var(&libraryBPMMin, "bpm-min", 0, "minimum BPM")
	libraryTracksCmd.Flags().Float64Var(&libraryBPMMax, "bpm-max", 0, "maximum BPM")
	libraryTracksCmd.Flags().StringVar(&libraryGenre, "genre", "", "genre substring match")
	libraryTracksCmd.Flags().StringVar(&libraryKey, "key", "", "musical key")
	libraryTracksCmd.Flags().StringVar(&libraryArtist, "artist", "", "artist substring match")
	libraryTracksCmd.Flags().Int64Var(&libraryCrateID, "crate", 0, "restrict to a crate id")
	libraryTracksCmd.Flags().IntVar(&libraryLimit, "limit", 100, "maximum results")
	libraryTracksCmd.Flags().BoolVar(&libraryHarmonic, "harmonic", false, "widen --key to harmonically compatible keys")
}

// connectLibrary opens the configured Mixxx database. The reader stays open
// only for the lifetime of a single command.
func connectLibrary(cmd *cobra.Command) (*library.Reader, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	reader := library.NewReader(cfg.Library.ConnectTimeout, slog.Default())
	result := reader.Connect(cmd.Context(), cfg.Library.Path)
	if !result.Success {
		return nil, fmt.Errorf("connecting to Mixxx library: %s", result.Error)
	}
	return reader, nil
}

func runLibraryTracks(cmd *cobra.Command, args []string) error {
	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	filters := models.TrackFilters{}
	if cmd.Flags().Changed("bpm-min") {
		filters.BPMMin = &libraryBPMMin
	}
	if cmd.Flags().Changed("bpm-max") {
		filters.BPMMax = &libraryBPMMax
	}
	filters.Genre = libraryGenre
	filters.Key = libraryKey
	filters.Artist = libraryArtist
	if cmd.Flags().Changed("crate") {
		filters.CrateID = &libraryCrateID
	}

	harmonic := libraryHarmonic && libraryKey != ""
	if harmonic {
		if _, err := musickey.ToCamelot(libraryKey); err != nil {
			return fmt.Errorf("unrecognized key %q", libraryKey)
		}
		filters.Key = ""
	}

	tracks, err := reader.SearchTracks(cmd.Context(), filters, libraryLimit)
	if err != nil {
		return fmt.Errorf("searching tracks: %w", err)
	}

	if harmonic {
		compatible := tracks[:0]
		for i := range tracks {
			if tracks[i].Key != nil && musickey.Compatible(libraryKey, *tracks[i].Key) {
				compatible = append(compatible, tracks[i])
			}
		}
		tracks = compatible
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tARTIST\tTITLE\tBPM\tKEY\tGENRE")
	for _, t := range tracks {
		bpm := "-"
		if t.BPM != nil {
			bpm = fmt.Sprintf("%.1f", *t.BPM)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			models.StringVal(t.Artist, "-"),
			models.StringVal(t.Title, "-"),
			bpm,
			models.StringVal(t.Key, "-"),
			models.StringVal(t.Genre, "-"),
		)
	}
	return w.Flush()
}

func runLibraryStats(cmd *cobra.Command, args []string) error {
	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	stats, err := reader.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading library stats: %w", err)
	}

	fmt.Printf("Path:        %s\n", reader.Path())
	fmt.Printf("Tracks:      %s\n", format.Number(stats.TrackCount))
	fmt.Printf("Artists:     %s\n", format.Number(stats.ArtistCount))
	fmt.Printf("Genres:      %s\n", format.Number(stats.GenreCount))
	fmt.Printf("Crates:      %s\n", format.Number(stats.CrateCount))
	if stats.AverageBPM != nil {
		fmt.Printf("Average BPM: %.1f\n", *stats.AverageBPM)
	}
	return nil
}

func runLibraryGenres(cmd *cobra.Command, args []string) error {
	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	genres, err := reader.Genres(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing genres: %w", err)
	}

	for _, g := range genres {
		fmt.Fprintln(cmd.OutOrStdout(), g)
	}
	return nil
}

func runLibraryCheck(cmd *cobra.Command, args []string) error {
	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	stats, err := reader.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading library stats: %w", err)
	}

	fmt.Printf("ok: %s (%s tracks)\n", reader.Path(), format.Number(stats.TrackCount))
	return nil
}

func runLibraryCrates(cmd *cobra.Command, args []string) error {
	reader, err := connectLibrary(cmd)
	if err != nil {
		return err
	}
	defer reader.Disconnect()

	crates, err := reader.Crates(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing crates: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTRACKS")
	for _, c := range crates {
		fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, c.Name, c.Count)
	}
	return w.Flush()
}
