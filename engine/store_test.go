package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "wordquest/adapters/memory"
	"wordquest/core"
)

func fixedClock(date string) func() time.Time {
	day, err := time.Parse(core.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day }
}

func newTestStore(t *testing.T, opts ...StoreOption) (*Store, *mem.Store) {
	t.Helper()
	storage := mem.New()
	bus := NewEventBus(DispatchSync)
	store := NewStore(context.Background(), storage, bus, opts...)
	t.Cleanup(store.Close)
	return store, storage
}

func mustProfile(t *testing.T) core.Profile {
	t.Helper()
	p, err := core.NewProfile("Mila", core.Age7to9, "fox", core.LangEN, core.LangEN)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStoreRestoresSavedGame(t *testing.T) {
	storage := mem.New()
	saved := core.NewGameState()
	p := mustProfile(t)
	saved.Profile = &p
	saved.XP = 340
	saved.Level = 99 // stale on disk; restore must recompute
	if err := storage.Save(context.Background(), saved); err != nil {
		t.Fatal(err)
	}

	store := NewStore(context.Background(), storage, NewEventBus(DispatchSync))
	defer store.Close()
	st := store.State()
	if st.XP != 340 {
		t.Fatalf("xp = %d, want 340", st.XP)
	}
	if st.Level != core.LevelFromXP(340) {
		t.Fatalf("level = %d, not recomputed from xp", st.Level)
	}
}

func TestStorePersistsOnlyWithProfile(t *testing.T) {
	store, storage := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddXP(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := storage.Load(ctx); ok {
		t.Fatalf("no snapshot expected before onboarding")
	}

	if err := store.SetProfile(ctx, mustProfile(t)); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := storage.Load(ctx); !ok {
		t.Fatalf("snapshot expected after profile set")
	}
}

func TestAddXPRecomputesLevel(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	levelUps := 0
	store.Subscribe(core.EventLevelUp, func(ctx context.Context, e core.Event) { levelUps++ })

	total, err := store.AddXP(ctx, core.LevelThreshold(3))
	if err != nil {
		t.Fatal(err)
	}
	if total != core.LevelThreshold(3) {
		t.Fatalf("total = %d", total)
	}
	st := store.State()
	if st.Level != 3 {
		t.Fatalf("level = %d, want 3", st.Level)
	}
	if levelUps != 1 {
		t.Fatalf("level up events = %d, want 1", levelUps)
	}

	if _, err := store.AddXP(ctx, -5); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative xp: got %v", err)
	}
}

func TestSpendCoinsRejectsOverdraft(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddCoins(ctx, 30); err != nil {
		t.Fatal(err)
	}
	if err := store.SpendCoins(ctx, 31); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("got %v, want ErrInsufficientCoins", err)
	}
	if store.State().Coins != 30 {
		t.Fatalf("failed spend must not change the balance")
	}
	// spending the exact balance empties it
	if err := store.SpendCoins(ctx, 30); err != nil {
		t.Fatal(err)
	}
	if store.State().Coins != 0 {
		t.Fatalf("coins = %d, want 0", store.State().Coins)
	}
}

func TestHearts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		store.LoseHeart(ctx)
	}
	if h := store.State().Hearts; h != 0 {
		t.Fatalf("hearts = %d, want floor at 0", h)
	}
	store.ResetHearts(ctx)
	if h := store.State().Hearts; h != core.MaxHearts() {
		t.Fatalf("hearts = %d after reset", h)
	}
}

func TestCompleteLevelOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.CompleteLevel(ctx, core.CompletedLevel{Module: core.ModuleVocabulary, LevelID: "v1", Stars: 3, BestScore: 10, PerfectRun: true})
	// a worse re-run still replaces the record; latest run wins
	store.CompleteLevel(ctx, core.CompletedLevel{Module: core.ModuleVocabulary, LevelID: "v1", Stars: 1, BestScore: 5})

	rec := store.State().CompletedLevels["v1"]
	if rec.Stars != 1 || rec.BestScore != 5 || rec.PerfectRun {
		t.Fatalf("record not overwritten: %+v", rec)
	}
	if rec.CompletedAt == "" {
		t.Fatalf("completion timestamp not stamped")
	}
}

func TestUpdateStreakIdempotentSameDay(t *testing.T) {
	store, _ := newTestStore(t, WithClock(fixedClock("2024-03-15")))
	ctx := context.Background()

	streak, newDay := store.UpdateStreak(ctx)
	if streak != 1 || !newDay {
		t.Fatalf("first play: got (%d,%v)", streak, newDay)
	}
	streak, newDay = store.UpdateStreak(ctx)
	if streak != 1 || newDay {
		t.Fatalf("repeat same day: got (%d,%v)", streak, newDay)
	}
	if store.State().LastPlayedDate != "2024-03-15" {
		t.Fatalf("lastPlayedDate = %q", store.State().LastPlayedDate)
	}
}

func TestUpdateStreakContinuesFromYesterday(t *testing.T) {
	storage := mem.New()
	saved := core.NewGameState()
	p := mustProfile(t)
	saved.Profile = &p
	saved.Streak = 6
	saved.LastPlayedDate = "2024-03-14"
	if err := storage.Save(context.Background(), saved); err != nil {
		t.Fatal(err)
	}

	store := NewStore(context.Background(), storage, NewEventBus(DispatchSync), WithClock(fixedClock("2024-03-15")))
	defer store.Close()

	streak, newDay := store.UpdateStreak(context.Background())
	if streak != 7 || !newDay {
		t.Fatalf("got (%d,%v), want (7,true)", streak, newDay)
	}
}

func TestCompleteDailyChallengeDedup(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.CompleteDailyChallenge(ctx, "2024-03-15")
	store.CompleteDailyChallenge(ctx, "2024-03-15")
	if n := len(store.State().DailyChallengeCleared); n != 1 {
		t.Fatalf("dates recorded = %d, want 1", n)
	}
}

func TestPurchaseFlow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Purchase(ctx, "no-such-item"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("got %v, want ErrUnknownItem", err)
	}
	if err := store.Purchase(ctx, "theme-ocean"); !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("got %v, want ErrInsufficientCoins", err)
	}
	if _, err := store.AddCoins(ctx, 150); err != nil {
		t.Fatal(err)
	}
	if err := store.Purchase(ctx, "theme-ocean"); err != nil {
		t.Fatal(err)
	}
	st := store.State()
	if st.Coins != 50 || !st.HasPurchase("theme-ocean") {
		t.Fatalf("coins=%d purchases=%v", st.Coins, st.ShopPurchases)
	}
	if err := store.Purchase(ctx, "theme-ocean"); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("got %v, want ErrAlreadyOwned", err)
	}
}

func TestEvaluateBadgesAwardsOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	awarded := 0
	store.Subscribe(core.EventBadgeAwarded, func(ctx context.Context, e core.Event) { awarded++ })

	if _, err := store.AddXP(ctx, 150); err != nil {
		t.Fatal(err)
	}
	first := store.EvaluateBadges(ctx)
	if len(first) != 1 || first[0] != "xp-100" {
		t.Fatalf("got %v, want [xp-100]", first)
	}
	if again := store.EvaluateBadges(ctx); len(again) != 0 {
		t.Fatalf("second evaluation returned %v", again)
	}
	if awarded != 1 {
		t.Fatalf("badge events = %d, want 1", awarded)
	}
}

func TestResetWipesEverything(t *testing.T) {
	store, storage := newTestStore(t)
	ctx := context.Background()

	if err := store.SetProfile(ctx, mustProfile(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddXP(ctx, 500); err != nil {
		t.Fatal(err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	st := store.State()
	if st.Profile != nil || st.XP != 0 || st.Level != 1 {
		t.Fatalf("state not reset: %+v", st)
	}
	if _, ok, _ := storage.Load(ctx); ok {
		t.Fatalf("persisted snapshot should be cleared")
	}
}

func TestLoadStateNormalizesSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var partial core.GameState
	partial.XP = 340
	partial.Coins = 12
	store.LoadState(ctx, partial)

	st := store.State()
	if st.XP != 340 || st.Coins != 12 {
		t.Fatalf("snapshot not applied: %+v", st)
	}
	if st.Level != core.LevelFromXP(340) {
		t.Fatalf("level = %d, not recomputed from xp", st.Level)
	}
	if st.CompletedLevels == nil || st.Badges == nil {
		t.Fatal("collections not defaulted")
	}
}
