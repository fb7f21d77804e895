package engine

import (
	"context"

	"wordquest/core"
)

// Storage persists the single GameState aggregate as one snapshot.
type Storage interface {
	// Load restores the saved aggregate. ok is false when no saved game
	// exists; that is not an error.
	Load(ctx context.Context) (state core.GameState, ok bool, err error)
	// Save writes the full aggregate, replacing any previous snapshot.
	Save(ctx context.Context, state core.GameState) error
	// Clear removes the persisted snapshot.
	Clear(ctx context.Context) error
}
