package core

import "time"

// EventType enumerates the closed set of state transitions the store emits.
type EventType string

const (
	EventProfileSet     EventType = "profile_set"
	EventXPAdded        EventType = "xp_added"
	EventLevelUp        EventType = "level_up"
	EventCoinsAdded     EventType = "coins_added"
	EventCoinsSpent     EventType = "coins_spent"
	EventHeartLost      EventType = "heart_lost"
	EventHeartsReset    EventType = "hearts_reset"
	EventLevelCompleted EventType = "level_completed"
	EventBadgeAwarded   EventType = "badge_awarded"
	EventStreakAdvanced EventType = "streak_advanced"
	EventDailyCompleted EventType = "daily_completed"
	EventComboChanged   EventType = "combo_changed"
	EventPurchaseAdded  EventType = "purchase_added"
	EventStateLoaded    EventType = "state_loaded"
	EventStateReset     EventType = "state_reset"
)

// EventTypes lists every event the store can emit, for consumers that
// subscribe to the whole stream.
func EventTypes() []EventType {
	return []EventType{
		EventProfileSet, EventXPAdded, EventLevelUp, EventCoinsAdded,
		EventCoinsSpent, EventHeartLost, EventHeartsReset, EventLevelCompleted,
		EventBadgeAwarded, EventStreakAdvanced, EventDailyCompleted,
		EventComboChanged, EventPurchaseAdded, EventStateLoaded,
		EventStateReset,
	}
}

// Event is an immutable record of a state transition.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	Delta    int            `json:"delta,omitempty"`
	Total    int            `json:"total,omitempty"`
	Level    int            `json:"level,omitempty"`
	BadgeID  string         `json:"badge,omitempty"`
	LevelID  string         `json:"levelId,omitempty"`
	Module   ModuleSlug     `json:"module,omitempty"`
	Date     string         `json:"date,omitempty"`
	ItemID   string         `json:"item,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func newEvent(typ EventType) Event {
	return Event{Type: typ, Time: time.Now().UTC()}
}

func NewProfileSet() Event { return newEvent(EventProfileSet) }

func NewXPAdded(delta, total int) Event {
	e := newEvent(EventXPAdded)
	e.Delta = delta
	e.Total = total
	return e
}

func NewLevelUp(level int) Event {
	e := newEvent(EventLevelUp)
	e.Level = level
	return e
}

func NewCoinsAdded(delta, total int) Event {
	e := newEvent(EventCoinsAdded)
	e.Delta = delta
	e.Total = total
	return e
}

func NewCoinsSpent(delta, total int) Event {
	e := newEvent(EventCoinsSpent)
	e.Delta = delta
	e.Total = total
	return e
}

func NewHeartLost(remaining int) Event {
	e := newEvent(EventHeartLost)
	e.Total = remaining
	return e
}

func NewHeartsReset() Event { return newEvent(EventHeartsReset) }

func NewLevelCompleted(rec CompletedLevel) Event {
	e := newEvent(EventLevelCompleted)
	e.LevelID = rec.LevelID
	e.Module = rec.Module
	e.Total = rec.Stars
	return e
}

func NewBadgeAwarded(id string) Event {
	e := newEvent(EventBadgeAwarded)
	e.BadgeID = id
	return e
}

func NewStreakAdvanced(streak int, date string) Event {
	e := newEvent(EventStreakAdvanced)
	e.Total = streak
	e.Date = date
	return e
}

func NewDailyCompleted(date string) Event {
	e := newEvent(EventDailyCompleted)
	e.Date = date
	return e
}

func NewComboChanged(count int) Event {
	e := newEvent(EventComboChanged)
	e.Total = count
	return e
}

func NewPurchaseAdded(itemID string) Event {
	e := newEvent(EventPurchaseAdded)
	e.ItemID = itemID
	return e
}

func NewStateLoaded() Event { return newEvent(EventStateLoaded) }

func NewStateReset() Event { return newEvent(EventStateReset) }
