package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wordquest/core"
)

// ErrInsufficientCoins is returned when a spend exceeds the balance. The
// state is left unchanged; the caller decides how to surface the failure.
var ErrInsufficientCoins = errors.New("insufficient coins")

// ErrUnknownItem is returned when a purchase names an id outside the catalog.
var ErrUnknownItem = errors.New("unknown shop item")

// ErrAlreadyOwned is returned when re-buying a non-consumable.
var ErrAlreadyOwned = errors.New("item already owned")

// ErrNegativeAmount is returned for negative XP or coin grants.
var ErrNegativeAmount = errors.New("amount cannot be negative")

// Store owns the GameState aggregate. All mutation flows through its
// methods; each one computes the new aggregate atomically under a single
// lock, persists the snapshot, then publishes the transition event. There
// is no ambient global: construct one Store per application instance and
// hand it to consumers.
type Store struct {
	mu      sync.Mutex
	state   core.GameState
	storage Storage
	bus     *EventBus
	logger  *slog.Logger
	now     func() time.Time
}

// StoreOption configures optional Store collaborators.
type StoreOption func(*Store)

// WithClock overrides the time source used for streak and daily-challenge
// date arithmetic. Tests use this to pin the calendar day.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger overrides the logger used for persistence warnings.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore builds the state owner and restores any saved aggregate.
// A failed or corrupt restore is logged and treated as a fresh game; the
// in-memory aggregate is authoritative for the session either way.
func NewStore(ctx context.Context, storage Storage, bus *EventBus, opts ...StoreOption) *Store {
	if storage == nil || bus == nil {
		panic("NewStore requires non-nil storage and bus")
	}
	s := &Store{
		state:   core.NewGameState(),
		storage: storage,
		bus:     bus,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	saved, ok, err := storage.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to restore saved game, starting fresh", "error", err)
	} else if ok {
		saved.Normalize()
		s.state = saved
	}
	return s
}

// Subscribe registers a handler on the store's event bus.
func (s *Store) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

// State returns a deep copy of the current aggregate.
func (s *Store) State() core.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Close releases the event bus workers.
func (s *Store) Close() { s.bus.Close() }

// today returns the current local calendar day per the injected clock.
func (s *Store) today() string {
	return s.now().Format(core.DateLayout)
}

// persist saves the aggregate once a profile exists. Failures are logged
// and swallowed: the session continues on the in-memory state.
// Callers hold s.mu, which keeps event processing serial; the write
// completes before the next command is accepted.
func (s *Store) persist(ctx context.Context) {
	if s.state.Profile == nil {
		return
	}
	if err := s.storage.Save(ctx, s.state); err != nil {
		s.logger.Warn("failed to persist game state", "error", err)
	}
}

// SetProfile records the onboarding identity and starts persistence.
func (s *Store) SetProfile(ctx context.Context, p core.Profile) error {
	if p.ID == "" || p.Name == "" {
		return errors.New("profile requires id and name")
	}
	if _, err := core.ParseAgeGroup(string(p.AgeGroup)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = &p
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewProfileSet())
	return nil
}

// AddXP grants XP and recomputes the level. This is the only transition
// that may change level, which keeps level == LevelFromXP(xp) invariant.
// Returns the new XP total.
func (s *Store) AddXP(ctx context.Context, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("add xp: %w", ErrNegativeAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.state.Level
	s.state.XP += amount
	s.state.Level = core.LevelFromXP(s.state.XP)
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewXPAdded(amount, s.state.XP))
	if s.state.Level > before {
		s.bus.Publish(ctx, core.NewLevelUp(s.state.Level))
	}
	return s.state.XP, nil
}

// AddCoins grants coins. Returns the new balance.
func (s *Store) AddCoins(ctx context.Context, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("add coins: %w", ErrNegativeAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Coins += amount
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewCoinsAdded(amount, s.state.Coins))
	return s.state.Coins, nil
}

// SpendCoins deducts coins, rejecting (not clamping) an overdraft.
func (s *Store) SpendCoins(ctx context.Context, amount int) error {
	if amount < 0 {
		return fmt.Errorf("spend coins: %w", ErrNegativeAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount > s.state.Coins {
		return fmt.Errorf("spend %d with balance %d: %w", amount, s.state.Coins, ErrInsufficientCoins)
	}
	s.state.Coins -= amount
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewCoinsSpent(amount, s.state.Coins))
	return nil
}

// LoseHeart decrements the session life counter, flooring at zero.
// Returns the remaining hearts.
func (s *Store) LoseHeart(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hearts > 0 {
		s.state.Hearts--
	}
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewHeartLost(s.state.Hearts))
	return s.state.Hearts
}

// ResetHearts refills hearts at the start of a level attempt.
func (s *Store) ResetHearts(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Hearts = core.MaxHearts()
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewHeartsReset())
}

// CompleteLevel records a finished level. An existing record for the same
// level id is overwritten unconditionally, even with a lower score;
// callers rely on "latest run wins".
func (s *Store) CompleteLevel(ctx context.Context, rec core.CompletedLevel) {
	if rec.CompletedAt == "" {
		rec.CompletedAt = s.now().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CompletedLevels[rec.LevelID] = rec
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewLevelCompleted(rec))
}

// UpdateStreak advances the daily streak. Same-day repeats are no-ops, so
// the call is idempotent within one calendar day.
func (s *Store) UpdateStreak(ctx context.Context) (streak int, newDay bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today()
	next, isNew := core.AdvanceStreak(s.state.LastPlayedDate, s.state.Streak, today)
	if !isNew {
		return s.state.Streak, false
	}
	s.state.Streak = next
	s.state.LastPlayedDate = today
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewStreakAdvanced(next, today))
	return next, true
}

// CompleteDailyChallenge marks the challenge done for a date. Duplicate
// dates are ignored.
func (s *Store) CompleteDailyChallenge(ctx context.Context, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DailyCompleted(date) {
		return
	}
	s.state.DailyChallengeCleared = append(s.state.DailyChallengeCleared, date)
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewDailyCompleted(date))
}

// SetCombo sets the transient in-session correct-answer streak.
func (s *Store) SetCombo(ctx context.Context, count int) {
	if count < 0 {
		count = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ComboCount = count
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewComboChanged(count))
}

// AddShopPurchase records an owned item id without charging for it.
// Purchase is the usual entry point; this exists for grants and restores.
func (s *Store) AddShopPurchase(ctx context.Context, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.HasPurchase(itemID) {
		return
	}
	s.state.ShopPurchases = append(s.state.ShopPurchases, itemID)
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewPurchaseAdded(itemID))
}

// Purchase buys a catalog item: the spend and the ownership record are one
// transition, so a rejected spend leaves no partial state.
func (s *Store) Purchase(ctx context.Context, itemID string) error {
	item, ok := core.ShopItemByID(itemID)
	if !ok {
		return fmt.Errorf("purchase %q: %w", itemID, ErrUnknownItem)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.HasPurchase(itemID) {
		return fmt.Errorf("purchase %q: %w", itemID, ErrAlreadyOwned)
	}
	if item.Cost > s.state.Coins {
		return fmt.Errorf("purchase %q for %d with balance %d: %w", itemID, item.Cost, s.state.Coins, ErrInsufficientCoins)
	}
	s.state.Coins -= item.Cost
	s.state.ShopPurchases = append(s.state.ShopPurchases, itemID)
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewCoinsSpent(item.Cost, s.state.Coins))
	s.bus.Publish(ctx, core.NewPurchaseAdded(itemID))
	return nil
}

// EvaluateBadges awards every newly-qualifying badge and returns their ids
// in catalog order. Safe to call repeatedly; already-earned badges are
// never re-awarded.
func (s *Store) EvaluateBadges(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	earned := core.EvaluateBadges(s.state)
	if len(earned) == 0 {
		return nil
	}
	s.state.Badges = append(s.state.Badges, earned...)
	s.persist(ctx)
	for _, id := range earned {
		s.bus.Publish(ctx, core.NewBadgeAwarded(id))
	}
	return earned
}

// LoadState replaces the whole aggregate with an external snapshot, e.g.
// an import from another device. The snapshot is normalized first so
// partial or older-schema payloads fall back to defaults.
func (s *Store) LoadState(ctx context.Context, state core.GameState) {
	state.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.persist(ctx)
	s.bus.Publish(ctx, core.NewStateLoaded())
}

// Reset wipes both the in-memory aggregate and the persisted snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = core.NewGameState()
	if err := s.storage.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted state", "error", err)
	}
	s.bus.Publish(ctx, core.NewStateReset())
	return nil
}
