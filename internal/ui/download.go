package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/ytget/likedl/internal/model"
)

// DownloadScreen renders batch events as they arrive
type DownloadScreen struct {
	out      io.Writer
	now      func() time.Time
	lastDraw time.Time
	lineOpen bool
	errors   []string

	heading *color.Color
	success *color.Color
	failure *color.Color
	warning *color.Color
}

// NewDownloadScreen creates a download screen writing to out
func NewDownloadScreen(out io.Writer) *DownloadScreen {
	return &DownloadScreen{
		out:     out,
		now:     time.Now,
		heading: color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
	}
}

// Run consumes events until the channel is closed and returns the batch
// summary, or nil if the batch never completed
func (d *DownloadScreen) Run(total int, events <-chan model.ProgressEvent) *model.BatchSummary {
	fmt.Fprintln(d.out)
	d.heading.Fprintln(d.out, TextStarting)
	fmt.Fprintf(d.out, TextBatchCounter+"\n", 0, total)

	var summary *model.BatchSummary
	for event := range events {
		if s := d.Handle(event); s != nil {
			summary = s
		}
	}
	d.endLine()
	return summary
}

// Handle renders one event and returns the summary carried by
// EventBatchCompleted
func (d *DownloadScreen) Handle(event model.ProgressEvent) *model.BatchSummary {
	switch event.Type {
	case model.EventItemStarted:
		d.endLine()
		p := event.Progress
		d.heading.Fprintf(d.out, "["+TextBatchCounter+"] "+TextDownloading+"\n", p.Index, p.Total, p.Title)

	case model.EventItemProgress:
		if !event.Status.IsActive() {
			return nil
		}
		now := d.now()
		if !event.IsLifecycle() && d.lineOpen && now.Sub(d.lastDraw) < RedrawInterval {
			return nil
		}
		d.lastDraw = now
		d.lineOpen = true
		fmt.Fprintf(d.out, "\r  %s\033[K", ProgressLine(event.Progress))

	case model.EventItemFinished:
		d.endLine()
		if event.Result == nil || !event.Status.IsFinished() {
			return nil
		}
		if event.Status == model.ItemStatusFailed {
			d.errors = append(d.errors, event.Result.Message())
			d.failure.Fprintf(d.out, "  ✗ %s\n", event.Result.Message())
		} else {
			d.success.Fprintf(d.out, "  ✓ %s\n", filepath.Base(event.Result.Path))
		}

	case model.EventBatchCompleted:
		d.endLine()
		if event.Summary == nil {
			return nil
		}
		d.renderSummary(event.Summary)
		return event.Summary
	}
	return nil
}

// Errors returns the failure messages shown so far
func (d *DownloadScreen) Errors() []string {
	return d.errors
}

func (d *DownloadScreen) renderSummary(summary *model.BatchSummary) {
	fmt.Fprintln(d.out)
	fmt.Fprintf(d.out, TextBatchCounter+"\n", summary.Total, summary.Total)
	if len(d.errors) > 0 {
		d.failure.Fprintln(d.out, strings.Join(d.errors, "\n"))
	}
	if summary.Failed > 0 {
		d.warning.Fprintln(d.out, SummaryText(summary))
	} else {
		d.success.Fprintln(d.out, SummaryText(summary))
	}
	if summary.ManifestErr != nil {
		d.failure.Fprintf(d.out, TextManifestFailed+"\n", summary.ManifestErr)
	}
}

func (d *DownloadScreen) endLine() {
	if d.lineOpen {
		fmt.Fprintln(d.out)
		d.lineOpen = false
	}
}

// SummaryText is the closing line of a batch
func SummaryText(summary *model.BatchSummary) string {
	if summary.Failed > 0 {
		return fmt.Sprintf(TextDoneWithErrors, summary.Succeeded, summary.Failed)
	}
	return TextAllComplete
}

// ProgressLine renders percent, a bar and transferred bytes
func ProgressLine(p model.BatchProgress) string {
	line := fmt.Sprintf("%3.0f%% %s", p.Percent, ProgressBar(p.Percent, ProgressBarWidth))
	switch {
	case p.TotalBytes > 0:
		line += fmt.Sprintf(" %s / %s", humanize.Bytes(uint64(p.DownloadedBytes)), humanize.Bytes(uint64(p.TotalBytes)))
	case p.DownloadedBytes > 0:
		line += " " + humanize.Bytes(uint64(p.DownloadedBytes))
	}
	return line
}

// ProgressBar draws percent (0..100) as width cells
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return strings.Repeat(BarFilled, filled) + strings.Repeat(BarEmpty, width-filled)
}
