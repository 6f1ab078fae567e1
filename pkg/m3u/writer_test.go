package m3u

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestGenerate_FullPlaylist(t *testing.T) {
	generatedAt := time.Date(2026, 8, 28, 19, 4, 11, 0, time.UTC)
	entries := []*Entry{
		{
			Duration: f64Ptr(312.4),
			Artist:   strPtr("Carl Cox"),
			Title:    strPtr("Spin the Wheel"),
			Path:     "/music/carl_cox/spin_the_wheel.mp3",
		},
		{
			Duration: f64Ptr(244.6),
			Artist:   strPtr("Charlotte de Witte"),
			Title:    strPtr("Doppler"),
			Path:     "/music/cdw/doppler.flac",
		},
	}

	out, err := Generate("Friday Warmup", generatedAt, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `#EXTM3U
# Playlist: Friday Warmup
# Generated: 2026-08-28T19:04:11Z
# Tracks: 2
#EXTINF:312,Carl Cox - Spin the Wheel
/music/carl_cox/spin_the_wheel.mp3
#EXTINF:245,Charlotte de Witte - Doppler
/music/cdw/doppler.flac
`
	if out != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestGenerate_MissingMetadataDefaults(t *testing.T) {
	entries := []*Entry{
		{Path: "/music/unknown.mp3"},
	}

	out, err := Generate("Sparse", time.Now(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "#EXTINF:0,Unknown Artist - Unknown Title\n/music/unknown.mp3\n") {
		t.Errorf("expected default metadata line, got:\n%s", out)
	}
}

func TestGenerate_EmptyStringMetadataDefaults(t *testing.T) {
	entries := []*Entry{
		{Artist: strPtr(""), Title: strPtr(""), Path: "/music/blank.mp3"},
	}

	out, err := Generate("Blank", time.Now(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Unknown Artist - Unknown Title") {
		t.Errorf("expected empty strings to fall back to defaults, got:\n%s", out)
	}
}

func TestGenerate_EmptyPlaylist(t *testing.T) {
	_, err := Generate("Empty", time.Now(), nil)
	if !errors.Is(err, ErrNoTracks) {
		t.Fatalf("expected ErrNoTracks, got %v", err)
	}
}

func TestGenerate_DurationRounding(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     string
	}{
		{"round down", 180.4, "#EXTINF:180,"},
		{"round up", 180.5, "#EXTINF:181,"},
		{"exact", 180.0, "#EXTINF:180,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []*Entry{{Duration: f64Ptr(tt.duration), Path: "/m/t.mp3"}}
			out, err := Generate("R", time.Now(), entries)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}
}

func TestWriter_HeaderWrittenOnce(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	if err := w.WriteHeader("Once", time.Now(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.WriteHeader("Twice", time.Now(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Count(sb.String(), "#EXTM3U"); got != 1 {
		t.Errorf("expected a single header, got %d", got)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := []*Entry{
		{Duration: f64Ptr(200), Artist: strPtr("A"), Title: strPtr("B"), Path: "/m/a.mp3"},
		{Duration: f64Ptr(100), Artist: strPtr("C"), Title: strPtr("D"), Path: "/m/b.mp3"},
	}

	out, err := Generate("RT", time.Now(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseAll(strings.NewReader(out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(parsed))
	}
	if *parsed[0].Artist != "A" || *parsed[0].Title != "B" || parsed[0].Path != "/m/a.mp3" {
		t.Errorf("first entry did not round-trip: %+v", parsed[0])
	}
}
