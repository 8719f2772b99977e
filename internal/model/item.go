package model

import (
	"fmt"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// VideoURLTemplate builds a watch URL from a video ID
const VideoURLTemplate = "https://www.youtube.com/watch?v=%s"

// Item is a single liked video that can be downloaded
type Item struct {
	ID       string
	Title    string
	Channel  string
	Duration int // seconds, 0 if unknown
}

// DurationString formats the duration as M:SS or H:MM:SS
func (i Item) DurationString() string {
	if i.Duration < 0 {
		return "0:00"
	}

	hours := i.Duration / SecondsPerHour
	minutes := (i.Duration % SecondsPerHour) / SecondsPerMinute
	seconds := i.Duration % SecondsPerMinute

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// URL returns the watch URL of the item
func (i Item) URL() string {
	return fmt.Sprintf(VideoURLTemplate, i.ID)
}

// RawEntry is a playlist entry as reported by the media-fetching tool.
// Any field may be missing.
type RawEntry struct {
	ID       *string  `json:"id"`
	Title    *string  `json:"title"`
	Uploader *string  `json:"uploader"`
	Channel  *string  `json:"channel"`
	Duration *float64 `json:"duration"`
}

// Credentials selects the cookie source handed to yt-dlp. The contents are
// never inspected.
type Credentials struct {
	CookiesFromBrowser string
	CookieFile         string
}

// IsZero reports whether no cookie source is configured
func (c Credentials) IsZero() bool {
	return c.CookiesFromBrowser == "" && c.CookieFile == ""
}
