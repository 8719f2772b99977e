package platform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grafov/m3u8"
)

// Playlist export constants
const (
	LatestPlaylistName = "latest.m3u8"
)

// PlaylistEntry is one track of an exported playlist
type PlaylistEntry struct {
	Path     string
	Title    string
	Duration int // seconds
}

// WritePlaylist writes an extended M3U playlist at path listing entries in
// order. Paths are stored relative to the playlist location. Nothing is
// written for an empty list.
func WritePlaylist(path string, entries []PlaylistEntry) error {
	if len(entries) == 0 {
		return nil
	}

	p, err := m3u8.NewMediaPlaylist(0, uint(len(entries)))
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	p.DurationAsInt(true)

	base := filepath.Dir(path)
	for _, e := range entries {
		uri := e.Path
		if rel, err := filepath.Rel(base, e.Path); err == nil {
			uri = rel
		}
		if err := p.Append(filepath.ToSlash(uri), float64(e.Duration), cleanTitle(e.Title)); err != nil {
			return fmt.Errorf("failed to add %s to playlist: %w", e.Path, err)
		}
	}
	p.Close()

	return WriteFileAtomic(path, p.Encode().Bytes())
}

// cleanTitle keeps a title on one EXTINF line
func cleanTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
