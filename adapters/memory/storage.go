package memory

import (
	"context"
	"sync"

	"wordquest/core"
)

// Store is an in-memory snapshot Storage. Used by tests and as the
// default fallback when no durable adapter is configured.
type Store struct {
	mu    sync.Mutex
	state core.GameState
	saved bool
}

func New() *Store { return &Store{} }

func (s *Store) Load(_ context.Context) (core.GameState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.GameState{}, false, nil
	}
	return s.state.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, state core.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	s.saved = true
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = core.GameState{}
	s.saved = false
	return nil
}
