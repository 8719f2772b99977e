package ui

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/ytget/likedl/internal/model"
)

func init() {
	color.NoColor = true
}

type memoryStore struct {
	ids   map[string]bool
	saves int
}

func newMemoryStore(ids ...string) *memoryStore {
	s := &memoryStore{ids: make(map[string]bool)}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *memoryStore) IsDownloaded(id string) bool { return s.ids[id] }

func (s *memoryStore) MarkDownloaded(id string) { s.ids[id] = true }

func (s *memoryStore) Save() error {
	s.saves++
	return nil
}

func sampleItems() []model.Item {
	return []model.Item{
		{ID: "v1", Title: "Song A", Channel: "Artist A", Duration: 185},
		{ID: "v2", Title: "Song B", Channel: "Artist B", Duration: 3725},
		{ID: "v3", Title: "Song C", Channel: "Artist C", Duration: 59},
	}
}

func TestInfoText(t *testing.T) {
	tests := []struct {
		newCount int
		already  int
		expected string
	}{
		{5, 0, "5 tracks"},
		{5, 3, "5 new tracks (3 already downloaded)"},
		{0, 2, "0 new tracks (2 already downloaded)"},
		{0, 0, "0 tracks"},
	}

	for _, tt := range tests {
		if got := InfoText(tt.newCount, tt.already); got != tt.expected {
			t.Errorf("InfoText(%d, %d) = %q, expected %q", tt.newCount, tt.already, got, tt.expected)
		}
	}
}

func TestNewItems(t *testing.T) {
	pending, already := NewItems(sampleItems(), newMemoryStore("v2"))

	if already != 1 {
		t.Errorf("Expected 1 already downloaded, got %d", already)
	}
	if len(pending) != 2 || pending[0].ID != "v1" || pending[1].ID != "v3" {
		t.Errorf("Expected v1 and v3 in order, got %v", pending)
	}
}

func TestBrowseScreen_Render(t *testing.T) {
	var out bytes.Buffer
	NewBrowseScreen(&out).Render(sampleItems()[:2], 4)

	text := out.String()
	for _, want := range []string{"TITLE", "CHANNEL", "Song A", "Artist B", "3:05", "1:02:05", "2 new tracks (4 already downloaded)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}
}

func TestBrowseScreen_RenderEmpty(t *testing.T) {
	var out bytes.Buffer
	NewBrowseScreen(&out).Render(nil, 3)

	text := out.String()
	if !strings.Contains(text, TextNoNewTracks) {
		t.Errorf("Expected empty message, got:\n%s", text)
	}
	if !strings.Contains(text, "0 new tracks (3 already downloaded)") {
		t.Errorf("Expected info line, got:\n%s", text)
	}
}

func TestOptionLabels(t *testing.T) {
	labels := OptionLabels(sampleItems())

	if len(labels) != 3 {
		t.Fatalf("Expected 3 labels, got %d", len(labels))
	}
	if labels[0] != "  1. Song A | Artist A | 3:05" {
		t.Errorf("Unexpected label %q", labels[0])
	}
}

func TestPick(t *testing.T) {
	items := sampleItems()
	got := pick(items, []int{2, 0, 7, -1, 2})

	expected := []model.Item{items[0], items[2]}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer title", 10, "much long…"},
		{"ääääää", 3, "ää…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.max); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.max, got, tt.expected)
		}
	}
}

func TestAllSelector(t *testing.T) {
	items := sampleItems()
	got, err := AllSelector{}.Select(items)
	if err != nil || !reflect.DeepEqual(got, items) {
		t.Errorf("Expected all items, got %v (%v)", got, err)
	}
}

func TestAuthText(t *testing.T) {
	tests := []struct {
		creds    model.Credentials
		expected string
	}{
		{model.Credentials{CookiesFromBrowser: "chrome"}, "Authenticating with chrome cookies..."},
		{model.Credentials{CookieFile: "c.txt"}, "Authenticating with cookie file c.txt..."},
		{model.Credentials{}, ""},
	}

	for _, tt := range tests {
		if got := AuthText(tt.creds); got != tt.expected {
			t.Errorf("AuthText(%+v) = %q, expected %q", tt.creds, got, tt.expected)
		}
	}
}

func TestLoadingScreen_ThrottlesRedraws(t *testing.T) {
	var out bytes.Buffer
	screen := NewLoadingScreen(&out)
	now := time.Unix(1700000000, 0)
	screen.now = func() time.Time { return now }

	screen.Progress(1, 10)
	screen.Progress(2, 10) // same instant, skipped
	now = now.Add(RedrawInterval)
	screen.Progress(3, 10)
	screen.Progress(10, 10) // final count always drawn
	screen.Loaded(10, 2)

	text := out.String()
	if strings.Contains(text, "Fetched 2 of 10") {
		t.Error("Expected throttled update to be skipped")
	}
	for _, want := range []string{"Fetched 1 of 10", "Fetched 3 of 10", "Fetched 10 of 10", "Loaded 10 liked videos", "Skipped 2 entries"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%q", want, text)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-5, 0},
	}

	for _, tt := range tests {
		bar := ProgressBar(tt.percent, 10)
		if got := strings.Count(bar, BarFilled); got != tt.filled {
			t.Errorf("ProgressBar(%v) filled = %d, expected %d", tt.percent, got, tt.filled)
		}
		if got := strings.Count(bar, BarFilled) + strings.Count(bar, BarEmpty); got != 10 {
			t.Errorf("ProgressBar(%v) width = %d, expected 10", tt.percent, got)
		}
	}
}

func TestProgressLine(t *testing.T) {
	line := ProgressLine(model.BatchProgress{Percent: 50, DownloadedBytes: 1500000, TotalBytes: 3000000})
	if !strings.HasPrefix(line, " 50% ") || !strings.HasSuffix(line, "1.5 MB / 3.0 MB") {
		t.Errorf("Unexpected progress line %q", line)
	}

	line = ProgressLine(model.BatchProgress{DownloadedBytes: 2000})
	if !strings.HasSuffix(line, " 2.0 kB") {
		t.Errorf("Unexpected progress line without total %q", line)
	}
}

func TestSummaryText(t *testing.T) {
	ok := &model.BatchSummary{Total: 2, Succeeded: 2}
	if SummaryText(ok) != TextAllComplete {
		t.Errorf("Expected %q, got %q", TextAllComplete, SummaryText(ok))
	}

	mixed := &model.BatchSummary{Total: 3, Succeeded: 2, Failed: 1}
	if SummaryText(mixed) != "Done! 2 succeeded, 1 failed." {
		t.Errorf("Unexpected summary %q", SummaryText(mixed))
	}
}

func TestDownloadScreen_RendersBatch(t *testing.T) {
	var out bytes.Buffer
	screen := NewDownloadScreen(&out)

	items := sampleItems()
	summary := model.NewBatchSummary(2)
	failed := model.DownloadResult{Item: items[1], Status: model.ItemStatusFailed, Err: errors.New("HTTP Error 403")}
	succeeded := model.DownloadResult{Item: items[0], Status: model.ItemStatusSucceeded, Path: "downloads/Artist A - Song A.mp3"}
	summary.Record(succeeded)
	summary.Record(failed)
	summary.ManifestErr = errors.New("disk full")

	events := make(chan model.ProgressEvent, 16)
	events <- model.ProgressEvent{Type: model.EventItemStarted, Status: model.ItemStatusDownloading, Progress: model.BatchProgress{Index: 1, Total: 2, Title: "Song A"}}
	events <- model.ProgressEvent{Type: model.EventItemProgress, Status: model.ItemStatusDownloading, Progress: model.BatchProgress{Index: 1, Total: 2, Percent: 100}}
	events <- model.ProgressEvent{Type: model.EventItemFinished, Status: model.ItemStatusSucceeded, Result: &succeeded}
	events <- model.ProgressEvent{Type: model.EventItemStarted, Status: model.ItemStatusDownloading, Progress: model.BatchProgress{Index: 2, Total: 2, Title: "Song B"}}
	events <- model.ProgressEvent{Type: model.EventItemFinished, Status: model.ItemStatusFailed, Result: &failed}
	events <- model.ProgressEvent{Type: model.EventBatchCompleted, Summary: summary}
	close(events)

	got := screen.Run(2, events)
	if got != summary {
		t.Fatal("Expected Run to return the batch summary")
	}

	text := out.String()
	for _, want := range []string{
		TextStarting,
		"[1 / 2] Downloading: Song A",
		"100%",
		"✓ Artist A - Song A.mp3",
		"[2 / 2] Downloading: Song B",
		"✗ Song B: HTTP Error 403",
		"2 / 2",
		"Done! 1 succeeded, 1 failed.",
		"could not save the manifest: disk full",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, text)
		}
	}

	if !reflect.DeepEqual(screen.Errors(), []string{"Song B: HTTP Error 403"}) {
		t.Errorf("Unexpected error log %v", screen.Errors())
	}
}

func TestDownloadScreen_ThrottlesIntermediateProgress(t *testing.T) {
	var out bytes.Buffer
	screen := NewDownloadScreen(&out)
	now := time.Unix(1700000000, 0)
	screen.now = func() time.Time { return now }

	screen.Handle(progressEvent(1, 10))
	screen.Handle(progressEvent(1, 20)) // same instant, skipped
	now = now.Add(RedrawInterval)
	screen.Handle(progressEvent(1, 30))
	screen.Handle(progressEvent(1, 100)) // lifecycle, always drawn

	text := out.String()
	if strings.Contains(text, " 20%") {
		t.Error("Expected 20% redraw to be skipped")
	}
	for _, want := range []string{" 10%", " 30%", "100%"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q: %q", want, text)
		}
	}
}

func TestDownloadScreen_IgnoresEventsWithoutItemState(t *testing.T) {
	var out bytes.Buffer
	screen := NewDownloadScreen(&out)

	stale := progressEvent(1, 55)
	stale.Status = model.ItemStatusSucceeded
	screen.Handle(stale)

	result := model.DownloadResult{Item: model.Item{Title: "Song A"}, Status: model.ItemStatusFailed, Err: errors.New("boom")}
	screen.Handle(model.ProgressEvent{Type: model.EventItemFinished, Status: model.ItemStatusDownloading, Result: &result})

	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
	if len(screen.Errors()) != 0 {
		t.Errorf("Expected no errors recorded, got %v", screen.Errors())
	}
}
