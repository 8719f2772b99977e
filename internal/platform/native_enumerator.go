package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/likedl/internal/model"
)

// URL parameters
const (
	PlaylistQueryParam = "list"
	LikedPlaylistID    = "LL"
)

// NativeProgressLine is reported once the listing is complete
const NativeProgressLine = "[native] Downloading item %d of %d"

// Timeout constants
const (
	DefaultNativeTimeout = 60 * time.Second
)

// NativeEnumerator lists public playlists with the pure-Go ytdlp library.
// It cannot authenticate, so private collections such as liked videos are
// out of its reach.
type NativeEnumerator struct {
	timeout time.Duration
	log     *logrus.Logger
}

// NewNativeEnumerator creates a library-backed enumerator
func NewNativeEnumerator(timeout time.Duration, log *logrus.Logger) *NativeEnumerator {
	if timeout <= 0 {
		timeout = DefaultNativeTimeout
	}
	return &NativeEnumerator{timeout: timeout, log: log}
}

// Enumerate fetches all items of the playlist referenced by source
func (n *NativeEnumerator) Enumerate(ctx context.Context, source string, creds model.Credentials, logSink func(string)) ([]model.RawEntry, error) {
	if !creds.IsZero() {
		n.log.Warn("Native backend ignores cookies; only public playlists can be listed")
	}

	playlistID, err := ExtractPlaylistID(source)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	n.log.WithField("playlist", playlistID).Debug("Listing playlist with native backend")

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	entries := playlistEntries(items)

	// Same shape as yt-dlp's playlist log so the progress parser picks it up
	if logSink != nil && len(entries) > 0 {
		logSink(fmt.Sprintf(NativeProgressLine, len(entries), len(entries)))
	}

	return entries, nil
}

// ExtractPlaylistID returns the playlist ID from a playlist or watch URL.
// A value without a scheme is taken as the ID itself.
func ExtractPlaylistID(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("empty playlist source")
	}

	if !strings.Contains(source, "://") {
		return source, nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL %s: %w", source, err)
	}

	id := u.Query().Get(PlaylistQueryParam)
	if id == "" {
		return "", fmt.Errorf("URL does not contain playlist parameter: %s", source)
	}
	return id, nil
}

// IsLikedSource reports whether source refers to the signed-in user's
// liked videos, which cannot be listed without credentials
func IsLikedSource(source string) bool {
	id, err := ExtractPlaylistID(source)
	return err == nil && id == LikedPlaylistID
}

// playlistEntries maps library playlist items to raw entries. The
// library reports no channel or duration for playlist items.
func playlistEntries(items []types.PlaylistItem) []model.RawEntry {
	entries := make([]model.RawEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.RawEntry{
			ID:    optionalString(it.VideoID),
			Title: optionalString(it.Title),
		})
	}
	return entries
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
