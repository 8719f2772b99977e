package main

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ytget/likedl/internal/config"
	"github.com/ytget/likedl/internal/model"
	"github.com/ytget/likedl/internal/platform"
)

func loadSettings(t *testing.T, args ...string) *config.Settings {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	flags := config.NewFlagSet(AppName)
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	settings, err := config.Load(flags)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return settings
}

func TestNewEnumerator(t *testing.T) {
	log, _ := test.NewNullLogger()

	if _, ok := newEnumerator(loadSettings(t), log).(*platform.YTDLPEnumerator); !ok {
		t.Error("Expected yt-dlp enumerator by default")
	}
	if _, ok := newEnumerator(loadSettings(t, "--backend", "native"), log).(*platform.NativeEnumerator); !ok {
		t.Error("Expected native enumerator for --backend native")
	}
}

func TestNewVerifier(t *testing.T) {
	log, _ := test.NewNullLogger()

	if newVerifier(loadSettings(t), log) == nil {
		t.Error("Expected a verifier by default")
	}
	if v := newVerifier(loadSettings(t, "--verify=false"), log); v != nil {
		t.Errorf("Expected no verifier when disabled, got %T", v)
	}
}

func TestPlaylistEntries(t *testing.T) {
	summary := model.NewBatchSummary(3)
	summary.Record(model.DownloadResult{
		Item:   model.Item{ID: "v1", Title: "Song A", Channel: "Artist A", Duration: 180},
		Status: model.ItemStatusSucceeded,
		Path:   "downloads/Artist A - Song A.mp3",
	})
	summary.Record(model.DownloadResult{
		Item:   model.Item{ID: "v2", Title: "Song B"},
		Status: model.ItemStatusFailed,
		Err:    errors.New("boom"),
	})

	entries := playlistEntries(summary)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	expected := platform.PlaylistEntry{Path: "downloads/Artist A - Song A.mp3", Title: "Artist A - Song A", Duration: 180}
	if entries[0] != expected {
		t.Errorf("Expected %+v, got %+v", expected, entries[0])
	}
}

func TestRun_Version(t *testing.T) {
	if code := run([]string{"--version"}); code != ExitOK {
		t.Errorf("Expected exit code %d, got %d", ExitOK, code)
	}
}

func TestRun_BadFlag(t *testing.T) {
	if code := run([]string{"--no-such-flag"}); code != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, code)
	}
}
