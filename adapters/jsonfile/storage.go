package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"wordquest/core"
)

// Store persists the GameState snapshot to a single JSON file, the durable
// analogue of a browser's local-storage key. Suitable for a local install.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot. A missing file means no saved game; a corrupt
// file is reported as an error so the caller can decide to start fresh.
func (s *Store) Load(_ context.Context) (core.GameState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.GameState{}, false, nil
		}
		return core.GameState{}, false, err
	}
	var state core.GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return core.GameState{}, false, err
	}
	return state, true, nil
}

// Save writes the snapshot atomically via a temp file and rename.
func (s *Store) Save(_ context.Context, state core.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the save file. Clearing an absent file is not an error.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
