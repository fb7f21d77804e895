package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AgeGroup is one of the four fixed age bands players choose at onboarding.
type AgeGroup string

const (
	Age4to6   AgeGroup = "4-6"
	Age7to9   AgeGroup = "7-9"
	Age10to12 AgeGroup = "10-12"
	Age13to15 AgeGroup = "13-15"
)

// Language identifies a supported UI or learning language.
type Language string

const (
	LangEN Language = "en"
	LangDE Language = "de"
	LangNL Language = "nl"
)

// ModuleSlug identifies a lesson module.
type ModuleSlug string

const (
	ModulePhonics    ModuleSlug = "phonics"
	ModuleVocabulary ModuleSlug = "vocabulary"
	ModuleSpelling   ModuleSlug = "spelling"
	ModuleSentences  ModuleSlug = "sentences"
	ModuleGrammar    ModuleSlug = "grammar"
	ModuleReading    ModuleSlug = "reading"
	ModuleWriting    ModuleSlug = "writing"
)

// AgeGroups lists all bands in ascending order.
func AgeGroups() []AgeGroup {
	return []AgeGroup{Age4to6, Age7to9, Age10to12, Age13to15}
}

// ParseAgeGroup validates an age-group string.
func ParseAgeGroup(s string) (AgeGroup, error) {
	for _, g := range AgeGroups() {
		if AgeGroup(s) == g {
			return g, nil
		}
	}
	return "", errors.New("unknown age group: " + s)
}

// Profile is the identity chosen at onboarding. Immutable once created
// except for avatar and learning-language edits.
type Profile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	AgeGroup         AgeGroup `json:"ageGroup"`
	AvatarID         string   `json:"avatarId"`
	UILanguage       Language `json:"uiLanguage"`
	LearningLanguage Language `json:"learningLanguage"`
	CreatedAt        string   `json:"createdAt"`
}

// NewProfile builds a profile with a generated id and creation timestamp.
func NewProfile(name string, age AgeGroup, avatarID string, ui, learning Language) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, errors.New("empty profile name")
	}
	if _, err := ParseAgeGroup(string(age)); err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:               uuid.NewString(),
		Name:             name,
		AgeGroup:         age,
		AvatarID:         avatarID,
		UILanguage:       ui,
		LearningLanguage: learning,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CompletedLevel records the outcome of a finished level. Re-completing a
// level overwrites the record unconditionally, even with a lower score.
type CompletedLevel struct {
	Module      ModuleSlug `json:"moduleSlug"`
	LevelID     string     `json:"levelId"`
	Stars       int        `json:"stars"`
	BestScore   int        `json:"bestScore"`
	CompletedAt string     `json:"completedAt"`
	PerfectRun  bool       `json:"perfectRun"`
}

// StateVersion is bumped when the persisted GameState schema changes.
const StateVersion = 1

const maxHearts = 5

// MaxHearts is the session life counter ceiling.
func MaxHearts() int { return maxHearts }

// GameState is the single mutable aggregate owned by the engine store.
// Level is always a pure function of XP; no other field may set it.
type GameState struct {
	Version               int                       `json:"version"`
	Profile               *Profile                  `json:"profile"`
	XP                    int                       `json:"xp"`
	Level                 int                       `json:"level"`
	Coins                 int                       `json:"coins"`
	Streak                int                       `json:"streak"`
	LastPlayedDate        string                    `json:"lastPlayedDate,omitempty"`
	Hearts                int                       `json:"hearts"`
	CompletedLevels       map[string]CompletedLevel `json:"completedLevels"`
	Badges                []string                  `json:"badges"`
	DailyChallengeCleared []string                  `json:"dailyChallengeCompleted"`
	ShopPurchases         []string                  `json:"shopPurchases"`
	ComboCount            int                       `json:"comboCount"`
}

// NewGameState returns the empty aggregate with documented defaults.
func NewGameState() GameState {
	return GameState{
		Version:               StateVersion,
		Level:                 1,
		Hearts:                maxHearts,
		CompletedLevels:       map[string]CompletedLevel{},
		Badges:                []string{},
		DailyChallengeCleared: []string{},
		ShopPurchases:         []string{},
	}
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	cp := s
	if s.Profile != nil {
		p := *s.Profile
		cp.Profile = &p
	}
	cp.CompletedLevels = make(map[string]CompletedLevel, len(s.CompletedLevels))
	for k, v := range s.CompletedLevels {
		cp.CompletedLevels[k] = v
	}
	cp.Badges = append([]string{}, s.Badges...)
	cp.DailyChallengeCleared = append([]string{}, s.DailyChallengeCleared...)
	cp.ShopPurchases = append([]string{}, s.ShopPurchases...)
	return cp
}

// Normalize repairs a state deserialized from an older or partial snapshot:
// nil collections become empty, hearts are clamped to [0,5], and level is
// recomputed from xp so the two can never diverge across schema versions.
func (s *GameState) Normalize() {
	if s.Version == 0 {
		s.Version = StateVersion
	}
	if s.CompletedLevels == nil {
		s.CompletedLevels = map[string]CompletedLevel{}
	}
	if s.Badges == nil {
		s.Badges = []string{}
	}
	if s.DailyChallengeCleared == nil {
		s.DailyChallengeCleared = []string{}
	}
	if s.ShopPurchases == nil {
		s.ShopPurchases = []string{}
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.Coins < 0 {
		s.Coins = 0
	}
	if s.Hearts < 0 {
		s.Hearts = 0
	}
	if s.Hearts > maxHearts {
		s.Hearts = maxHearts
	}
	s.Level = LevelFromXP(s.XP)
}

// HasBadge reports whether the badge id has been earned.
func (s GameState) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// HasPurchase reports whether the shop item id has been bought.
func (s GameState) HasPurchase(id string) bool {
	for _, p := range s.ShopPurchases {
		if p == id {
			return true
		}
	}
	return false
}

// DailyCompleted reports whether the daily challenge was finished on date.
func (s GameState) DailyCompleted(date string) bool {
	for _, d := range s.DailyChallengeCleared {
		if d == date {
			return true
		}
	}
	return false
}

// ModuleProgress counts completed levels belonging to a module.
func (s GameState) ModuleProgress(module ModuleSlug) int {
	n := 0
	for _, l := range s.CompletedLevels {
		if l.Module == module {
			n++
		}
	}
	return n
}

// PerfectRuns counts completed levels finished without a single miss.
func (s GameState) PerfectRuns() int {
	n := 0
	for _, l := range s.CompletedLevels {
		if l.PerfectRun {
			n++
		}
	}
	return n
}

// LevelResult summarizes a finished play session for the caller.
type LevelResult struct {
	LevelID    string     `json:"levelId"`
	Module     ModuleSlug `json:"moduleSlug"`
	Correct    int        `json:"correctAnswers"`
	Total      int        `json:"totalQuestions"`
	XPEarned   int        `json:"xpEarned"`
	Coins      int        `json:"coinsEarned"`
	Stars      int        `json:"stars"`
	PerfectRun bool       `json:"perfectRun"`
	NewBadges  []string   `json:"newBadges"`
	LeveledUp  bool       `json:"leveledUp"`
	NewLevel   int        `json:"newLevel,omitempty"`
}
