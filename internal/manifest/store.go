// Package manifest keeps the durable set of item IDs that were already
// downloaded, stored as manifest.json inside the downloads directory.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ytget/likedl/internal/platform"
)

// FileName is the manifest document name inside the downloads directory
const FileName = "manifest.json"

// ErrMalformed is returned by Load when the persisted document cannot be
// parsed. The store is left untouched so history is never silently reset.
var ErrMalformed = errors.New("malformed manifest")

// document is the persisted representation
type document struct {
	Downloaded []string `json:"downloaded"`
}

// Store is the set of downloaded IDs. Reads may happen from any goroutine;
// writes are expected from a single worker at a time.
type Store struct {
	path string
	mu   sync.RWMutex
	ids  map[string]struct{}
}

// NewStore creates an empty store backed by downloadsDir/manifest.json
func NewStore(downloadsDir string) *Store {
	return &Store{
		path: filepath.Join(downloadsDir, FileName),
		ids:  make(map[string]struct{}),
	}
}

// Path returns the manifest file location
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory set with the persisted one. A missing file
// yields an empty set.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.ids = make(map[string]struct{})
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	ids := make(map[string]struct{}, len(doc.Downloaded))
	for _, id := range doc.Downloaded {
		if id != "" {
			ids[id] = struct{}{}
		}
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
	return nil
}

// IsDownloaded reports whether id is in the set
func (s *Store) IsDownloaded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// MarkDownloaded adds id to the set. Adding an existing id has no effect.
func (s *Store) MarkDownloaded(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
}

// Count returns the number of downloaded IDs
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the downloaded IDs in lexicographic order
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Save overwrites the persisted document with the current set. The write is
// atomic: readers see either the old or the new document.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(document{Downloaded: s.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	if err := platform.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}
