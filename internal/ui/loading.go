package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/ytget/likedl/internal/model"
)

// LoadingScreen reports fetch progress on a single status line
type LoadingScreen struct {
	out      io.Writer
	now      func() time.Time
	lastDraw time.Time
	drawn    bool
	lineOpen bool
}

// NewLoadingScreen creates a loading screen writing to out
func NewLoadingScreen(out io.Writer) *LoadingScreen {
	return &LoadingScreen{out: out, now: time.Now}
}

// Start prints the fetch banner and where cookies come from
func (l *LoadingScreen) Start(creds model.Credentials) {
	color.New(color.FgCyan, color.Bold).Fprintln(l.out, TextFetching)
	if line := AuthText(creds); line != "" {
		fmt.Fprintln(l.out, line)
	}
}

// Progress redraws the status line, at most once per RedrawInterval
func (l *LoadingScreen) Progress(current, total int) {
	now := l.now()
	if l.drawn && current < total && now.Sub(l.lastDraw) < RedrawInterval {
		return
	}
	l.drawn = true
	l.lastDraw = now
	l.lineOpen = true
	fmt.Fprintf(l.out, "\r"+TextFetchProgress+"\033[K", current, total)
}

// Loaded ends the status line and prints the result
func (l *LoadingScreen) Loaded(count, skipped int) {
	l.endLine()
	fmt.Fprintf(l.out, TextLoaded+"\n", count)
	if skipped > 0 {
		color.New(color.FgYellow).Fprintf(l.out, TextSkippedEntries+"\n", skipped)
	}
}

// Failed ends the status line and prints err
func (l *LoadingScreen) Failed(err error) {
	l.endLine()
	color.New(color.FgRed).Fprintf(l.out, "Fetch failed: %v\n", err)
}

func (l *LoadingScreen) endLine() {
	if l.lineOpen {
		fmt.Fprintln(l.out)
		l.lineOpen = false
	}
}

// AuthText describes the cookie source, empty when there is none
func AuthText(creds model.Credentials) string {
	switch {
	case creds.CookieFile != "":
		return fmt.Sprintf(TextAuthFile, creds.CookieFile)
	case creds.CookiesFromBrowser != "":
		return fmt.Sprintf(TextAuthBrowser, creds.CookiesFromBrowser)
	default:
		return ""
	}
}
