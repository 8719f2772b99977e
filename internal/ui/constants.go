package ui

import "time"

// Timing
const (
	// RedrawInterval is the minimum gap between intermediate redraws
	RedrawInterval = 100 * time.Millisecond

	// DispatcherQueueSize bounds the worker to UI event queue
	DispatcherQueueSize = 64
)

// Layout
const (
	SelectPageSize   = 15
	ProgressBarWidth = 30
	MaxTitleWidth    = 60
	MaxChannelWidth  = 30
)

// Progress bar glyphs
const (
	BarFilled = "█"
	BarEmpty  = "░"
)

// Screen text
const (
	TextFetching        = "Fetching liked videos..."
	TextAuthBrowser     = "Authenticating with %s cookies..."
	TextAuthFile        = "Authenticating with cookie file %s..."
	TextFetchProgress   = "Fetched %d of %d"
	TextLoaded          = "Loaded %d liked videos. Checking downloads..."
	TextSkippedEntries  = "Skipped %d entries without an identifier"
	TextNoNewTracks     = "No new tracks to display."
	TextInfoWithAlready = "%d new tracks (%d already downloaded)"
	TextInfo            = "%d tracks"
	TextSelectPrompt    = "Select tracks to download:"
	TextSelectHelp      = "space toggles, right selects all, left clears, enter downloads (none selected quits)"
	TextSelected        = "%d selected"
	TextStarting        = "Starting downloads..."
	TextDownloading     = "Downloading: %s"
	TextBatchCounter    = "%d / %d"
	TextDoneWithErrors  = "Done! %d succeeded, %d failed."
	TextAllComplete     = "All downloads complete!"
	TextManifestFailed  = "Warning: could not save the manifest: %v"
	TextPressEnter      = "Press Enter to go back."
)

// Table columns
var tableHeader = []string{"#", "Title", "Channel", "Duration"}
