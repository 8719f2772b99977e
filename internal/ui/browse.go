package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ytget/likedl/internal/model"
)

// BrowseScreen lists the items that can still be downloaded
type BrowseScreen struct {
	out io.Writer
}

// NewBrowseScreen creates a browse screen writing to out
func NewBrowseScreen(out io.Writer) *BrowseScreen {
	return &BrowseScreen{out: out}
}

// Render prints the item table followed by the info line
func (b *BrowseScreen) Render(items []model.Item, alreadyDownloaded int) {
	fmt.Fprintln(b.out)
	if len(items) == 0 {
		color.New(color.Faint).Fprintln(b.out, TextNoNewTracks)
	} else {
		table := tablewriter.NewWriter(b.out)
		table.SetHeader(tableHeader)
		table.SetAutoWrapText(false)
		table.SetRowLine(false)
		for i, item := range items {
			table.Append([]string{
				strconv.Itoa(i + 1),
				truncate(item.Title, MaxTitleWidth),
				truncate(item.Channel, MaxChannelWidth),
				item.DurationString(),
			})
		}
		table.Render()
	}
	color.New(color.Faint).Fprintln(b.out, InfoText(len(items), alreadyDownloaded))
}

// RenderSelection confirms how many items were picked
func (b *BrowseScreen) RenderSelection(count int) {
	fmt.Fprintf(b.out, TextSelected+"\n", count)
}

// InfoText summarizes the list for the status line
func InfoText(newCount, alreadyDownloaded int) string {
	if alreadyDownloaded > 0 {
		return fmt.Sprintf(TextInfoWithAlready, newCount, alreadyDownloaded)
	}
	return fmt.Sprintf(TextInfo, newCount)
}

// Downloaded reports whether an item is already in the manifest
type Downloaded interface {
	IsDownloaded(id string) bool
}

// NewItems filters out downloaded items and counts them
func NewItems(items []model.Item, store Downloaded) ([]model.Item, int) {
	pending := make([]model.Item, 0, len(items))
	for _, item := range items {
		if !store.IsDownloaded(item.ID) {
			pending = append(pending, item)
		}
	}
	return pending, len(items) - len(pending)
}
