package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func TestLoad_NonexistentManifest(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "downloads"))

	if err := store.Load(); err != nil {
		t.Fatalf("Expected no error for missing manifest, got %v", err)
	}
	if store.IsDownloaded("anything") {
		t.Error("Expected empty store")
	}
	if store.Count() != 0 {
		t.Errorf("Expected count 0, got %d", store.Count())
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	downloads := filepath.Join(t.TempDir(), "downloads")

	store := NewStore(downloads)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"vid3", "vid1", "vid2"} {
		store.MarkDownloaded(id)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	fresh := NewStore(downloads)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	for _, id := range []string{"vid1", "vid2", "vid3"} {
		if !fresh.IsDownloaded(id) {
			t.Errorf("Expected %s to be downloaded", id)
		}
	}
	if fresh.IsDownloaded("vid4") {
		t.Error("Expected vid4 not to be downloaded")
	}
	if !reflect.DeepEqual(fresh.IDs(), []string{"vid1", "vid2", "vid3"}) {
		t.Errorf("Expected sorted IDs, got %v", fresh.IDs())
	}
}

func TestIsDownloaded(t *testing.T) {
	store := NewStore(t.TempDir())
	if store.IsDownloaded("vid1") {
		t.Error("Expected vid1 not to be downloaded")
	}
	store.MarkDownloaded("vid1")
	if !store.IsDownloaded("vid1") {
		t.Error("Expected vid1 to be downloaded")
	}
	if store.IsDownloaded("vid2") {
		t.Error("Expected vid2 not to be downloaded")
	}
}

func TestSave_CreatesDownloadsDir(t *testing.T) {
	downloads := filepath.Join(t.TempDir(), "new_dir")
	store := NewStore(downloads)

	if _, err := os.Stat(downloads); !os.IsNotExist(err) {
		t.Fatal("Expected directory not to exist yet")
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if info, err := os.Stat(downloads); err != nil || !info.IsDir() {
		t.Errorf("Expected %s to be a directory", downloads)
	}
}

func TestSave_JSONFormat(t *testing.T) {
	downloads := t.TempDir()
	store := NewStore(downloads)
	store.MarkDownloaded("b_vid")
	store.MarkDownloaded("a_vid")
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(downloads, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(doc) != 1 {
		t.Errorf("Expected a single key, got %v", doc)
	}
	if !reflect.DeepEqual(doc["downloaded"], []string{"a_vid", "b_vid"}) {
		t.Errorf("Expected sorted [a_vid b_vid], got %v", doc["downloaded"])
	}
}

func TestSave_EmptyWritesEmptyList(t *testing.T) {
	downloads := t.TempDir()
	if err := NewStore(downloads).Save(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(downloads, FileName))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string][]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["downloaded"] == nil || len(doc["downloaded"]) != 0 {
		t.Errorf("Expected an empty list, got %s", string(data))
	}
}

func TestMarkDownloaded_Idempotent(t *testing.T) {
	downloads := t.TempDir()
	store := NewStore(downloads)
	store.MarkDownloaded("vid1")
	store.MarkDownloaded("vid1")
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	fresh := NewStore(downloads)
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if fresh.Count() != 1 {
		t.Errorf("Expected 1 id after duplicate marks, got %d", fresh.Count())
	}
}

func TestLoad_Malformed(t *testing.T) {
	downloads := t.TempDir()
	path := filepath.Join(downloads, FileName)
	if err := os.WriteFile(path, []byte(`{"downloaded": ["a",`), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(downloads)
	store.MarkDownloaded("keep")

	err := store.Load()
	if err == nil {
		t.Fatal("Expected error for malformed manifest")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
	if !store.IsDownloaded("keep") {
		t.Error("Expected in-memory state to survive a failed load")
	}

	// The broken file must not be overwritten by the failed load
	data, _ := os.ReadFile(path)
	if string(data) != `{"downloaded": ["a",` {
		t.Errorf("Expected malformed file to stay untouched, got %s", string(data))
	}
}

func TestLoad_DeduplicatesAndIgnoresUnknownKeys(t *testing.T) {
	downloads := t.TempDir()
	content := `{"downloaded": ["b", "a", "b", ""], "version": 2}`
	if err := os.WriteFile(filepath.Join(downloads, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(downloads)
	if err := store.Load(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(store.IDs(), []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", store.IDs())
	}
}

func TestStore_ConcurrentReads(t *testing.T) {
	store := NewStore(t.TempDir())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			store.MarkDownloaded(string(rune('a' + i%26)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = store.Count()
			_ = store.IsDownloaded("a")
		}
	}()
	wg.Wait()

	if store.Count() != 26 {
		t.Errorf("Expected 26 ids, got %d", store.Count())
	}
}
