package memory

import (
	"context"
	"testing"

	"wordquest/core"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, ok, err := s.Load(ctx); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	state := core.NewGameState()
	state.XP = 120
	if err := s.Save(ctx, state); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.XP != 120 {
		t.Fatalf("xp = %d, want 120", got.XP)
	}

	// the stored snapshot must not alias the caller's value
	got.XP = 999
	again, _, _ := s.Load(ctx)
	if again.XP != 120 {
		t.Fatalf("snapshot aliased: %d", again.XP)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Load(ctx); ok {
		t.Fatalf("clear should drop the snapshot")
	}
}
