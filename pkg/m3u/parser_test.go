package m3u

import (
	"errors"
	"strings"
	"testing"
)

func TestParser_BasicParsing(t *testing.T) {
	content := `#EXTM3U
# Playlist: Friday Warmup
# Generated: 2026-08-28T19:04:11Z
# Tracks: 2
#EXTINF:312,Carl Cox - Spin the Wheel
/music/carl_cox/spin_the_wheel.mp3
#EXTINF:245,Charlotte de Witte - Doppler
/music/cdw/doppler.flac
`

	var entries []*Entry
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			entries = append(entries, entry)
			return nil
		},
	}

	if err := p.Parse(strings.NewReader(content)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e1 := entries[0]
	if e1.Artist == nil || *e1.Artist != "Carl Cox" {
		t.Errorf("expected artist 'Carl Cox', got %v", e1.Artist)
	}
	if e1.Title == nil || *e1.Title != "Spin the Wheel" {
		t.Errorf("expected title 'Spin the Wheel', got %v", e1.Title)
	}
	if e1.Duration == nil || *e1.Duration != 312 {
		t.Errorf("expected duration 312, got %v", e1.Duration)
	}
	if e1.Path != "/music/carl_cox/spin_the_wheel.mp3" {
		t.Errorf("unexpected path %q", e1.Path)
	}

	e2 := entries[1]
	if e2.Path != "/music/cdw/doppler.flac" {
		t.Errorf("unexpected path %q", e2.Path)
	}
}

func TestParser_PathWithoutExtinf(t *testing.T) {
	content := "/music/a.mp3\n/music/b.mp3\n"

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Artist != nil || entries[0].Duration != nil {
		t.Error("expected bare path entry to carry no metadata")
	}
}

func TestParser_UnknownDefaultsStripped(t *testing.T) {
	content := "#EXTINF:0,Unknown Artist - Unknown Title\n/music/mystery.mp3\n"

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Artist != nil {
		t.Errorf("expected placeholder artist to be dropped, got %q", *entries[0].Artist)
	}
	if entries[0].Title != nil {
		t.Errorf("expected placeholder title to be dropped, got %q", *entries[0].Title)
	}
}

func TestParser_NegativeDuration(t *testing.T) {
	content := "#EXTINF:-1,Someone - Something\n/music/live.mp3\n"

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Duration != nil {
		t.Errorf("expected unknown duration to stay nil, got %v", *entries[0].Duration)
	}
}

func TestParser_MalformedExtinf(t *testing.T) {
	content := "#EXTINF:notanumber,Broken\n/music/a.mp3\n#EXTINF:10,Good - Track\n/music/b.mp3\n"

	var errLines []int
	var entries []*Entry
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			entries = append(entries, entry)
			return nil
		},
		OnError: func(line int, err error) {
			errLines = append(errLines, line)
		},
	}

	if err := p.Parse(strings.NewReader(content)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errLines) != 1 || errLines[0] != 1 {
		t.Errorf("expected one parse error on line 1, got %v", errLines)
	}
	// The path after the malformed EXTINF still yields a bare entry.
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Artist != nil {
		t.Error("expected entry after malformed EXTINF to carry no metadata")
	}
	if entries[1].Artist == nil || *entries[1].Artist != "Good" {
		t.Errorf("unexpected second entry artist: %v", entries[1].Artist)
	}
}

func TestParser_OnEntryErrorStopsParse(t *testing.T) {
	content := "#EXTINF:10,A - B\n/music/a.mp3\n#EXTINF:10,C - D\n/music/b.mp3\n"

	stop := errors.New("stop")
	calls := 0
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			calls++
			return stop
		},
	}

	err := p.Parse(strings.NewReader(content))
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected parse to stop after first entry, got %d calls", calls)
	}
}

func TestParser_TitleOnlyDisplay(t *testing.T) {
	content := "#EXTINF:200,Standalone Title\n/music/t.mp3\n"

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries[0].Artist != nil {
		t.Error("expected no artist for display without separator")
	}
	if entries[0].Title == nil || *entries[0].Title != "Standalone Title" {
		t.Errorf("unexpected title: %v", entries[0].Title)
	}
}
