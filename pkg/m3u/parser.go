package m3u

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// extinfRegex matches "#EXTINF:<duration>,<display name>".
var extinfRegex = regexp.MustCompile(`^#EXTINF:\s*(-?\d+(?:\.\d+)?)\s*,\s*(.*)$`)

// Parser provides streaming M3U playlist parsing.
type Parser struct {
	// OnEntry is called for each complete entry. Returning an error
	// stops the parse.
	OnEntry func(entry *Entry) error

	// OnError is called for recoverable per-line errors. If nil, the
	// line is skipped silently.
	OnError func(line int, err error)
}

// Parse reads an M3U playlist from r, invoking OnEntry for each track.
func (p *Parser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var pending *Entry
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			entry, err := parseExtinf(line)
			if err != nil {
				if p.OnError != nil {
					p.OnError(lineNum, err)
				}
				pending = nil
				continue
			}
			pending = entry

		case strings.HasPrefix(line, "#"):
			// Header or comment line.
			continue

		default:
			entry := pending
			if entry == nil {
				entry = &Entry{}
			}
			entry.Path = line
			pending = nil

			if p.OnEntry != nil {
				if err := p.OnEntry(entry); err != nil {
					return err
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading playlist: %w", err)
	}
	return nil
}

// ParseAll reads an entire M3U playlist from r and returns its entries.
func ParseAll(r io.Reader) ([]*Entry, error) {
	var entries []*Entry
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			entries = append(entries, entry)
			return nil
		},
	}
	if err := p.Parse(r); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseExtinf(line string) (*Entry, error) {
	m := extinfRegex.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("malformed EXTINF line: %q", line)
	}

	entry := &Entry{}

	dur, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing EXTINF duration: %w", err)
	}
	if dur >= 0 {
		entry.Duration = &dur
	}

	display := strings.TrimSpace(m[2])
	if display != "" {
		if artist, title, ok := strings.Cut(display, " - "); ok {
			artist = strings.TrimSpace(artist)
			title = strings.TrimSpace(title)
			if artist != "" && artist != UnknownArtist {
				entry.Artist = &artist
			}
			if title != "" && title != UnknownTitle {
				entry.Title = &title
			}
		} else {
			entry.Title = &display
		}
	}

	return entry, nil
}
