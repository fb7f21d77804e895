package core

// ConditionKind tags the single condition attached to a badge.
type ConditionKind string

const (
	CondLevelCount ConditionKind = "level_count"
	CondXP         ConditionKind = "xp"
	CondStreak     ConditionKind = "streak"
	CondPerfect    ConditionKind = "perfect"
	CondModule     ConditionKind = "module"
	CondDaily      ConditionKind = "daily"
	CondCoins      ConditionKind = "coins"
)

// Rarity is the badge display tier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// BadgeCondition is the single unlock rule for a badge. Module-scoped
// conditions carry the module slug they count against.
type BadgeCondition struct {
	Kind      ConditionKind `json:"type"`
	Threshold int           `json:"value"`
	Module    ModuleSlug    `json:"moduleSlug,omitempty"`
}

// BadgeSpec is a static catalog entry. Badges are data; the evaluator is the
// only place conditions are interpreted. Changing a threshold retroactively
// changes outcomes on the next evaluation, by contract.
type BadgeSpec struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Condition   BadgeCondition `json:"condition"`
	Rarity      Rarity         `json:"rarity"`
}

// badgeCatalog is the fixed, ordered badge list. Evaluation results are
// reported in this order.
var badgeCatalog = []BadgeSpec{
	{ID: "first-steps", Name: "First Steps", Description: "Complete your first level", Icon: "👶", Condition: BadgeCondition{Kind: CondLevelCount, Threshold: 1}, Rarity: RarityCommon},
	{ID: "ten-levels", Name: "Getting Started", Description: "Complete 10 levels", Icon: "🎯", Condition: BadgeCondition{Kind: CondLevelCount, Threshold: 10}, Rarity: RarityCommon},
	{ID: "fifty-levels", Name: "Dedicated Learner", Description: "Complete 50 levels", Icon: "📚", Condition: BadgeCondition{Kind: CondLevelCount, Threshold: 50}, Rarity: RarityRare},
	{ID: "hundred-levels", Name: "Century Club", Description: "Complete 100 levels", Icon: "💯", Condition: BadgeCondition{Kind: CondLevelCount, Threshold: 100}, Rarity: RarityEpic},
	{ID: "xp-100", Name: "XP Beginner", Description: "Earn 100 XP", Icon: "⭐", Condition: BadgeCondition{Kind: CondXP, Threshold: 100}, Rarity: RarityCommon},
	{ID: "xp-1000", Name: "XP Hunter", Description: "Earn 1,000 XP", Icon: "🌟", Condition: BadgeCondition{Kind: CondXP, Threshold: 1000}, Rarity: RarityRare},
	{ID: "xp-5000", Name: "XP Master", Description: "Earn 5,000 XP", Icon: "💫", Condition: BadgeCondition{Kind: CondXP, Threshold: 5000}, Rarity: RarityEpic},
	{ID: "xp-10000", Name: "XP Legend", Description: "Earn 10,000 XP", Icon: "🏆", Condition: BadgeCondition{Kind: CondXP, Threshold: 10000}, Rarity: RarityLegendary},
	{ID: "streak-3", Name: "On Fire", Description: "3-day streak", Icon: "🔥", Condition: BadgeCondition{Kind: CondStreak, Threshold: 3}, Rarity: RarityCommon},
	{ID: "streak-7", Name: "Week Warrior", Description: "7-day streak", Icon: "🔥", Condition: BadgeCondition{Kind: CondStreak, Threshold: 7}, Rarity: RarityRare},
	{ID: "streak-30", Name: "Monthly Master", Description: "30-day streak", Icon: "🔥", Condition: BadgeCondition{Kind: CondStreak, Threshold: 30}, Rarity: RarityEpic},
	{ID: "perfect-1", Name: "Perfect Score", Description: "Get a perfect score on any level", Icon: "💎", Condition: BadgeCondition{Kind: CondPerfect, Threshold: 1}, Rarity: RarityCommon},
	{ID: "perfect-10", Name: "Perfectionist", Description: "Get 10 perfect scores", Icon: "💎", Condition: BadgeCondition{Kind: CondPerfect, Threshold: 10}, Rarity: RarityRare},
	{ID: "perfect-50", Name: "Flawless", Description: "Get 50 perfect scores", Icon: "💎", Condition: BadgeCondition{Kind: CondPerfect, Threshold: 50}, Rarity: RarityLegendary},
	{ID: "vocab-master", Name: "Vocab Master", Description: "Complete all vocabulary levels", Icon: "📖", Condition: BadgeCondition{Kind: CondModule, Threshold: 10, Module: ModuleVocabulary}, Rarity: RarityEpic},
	{ID: "grammar-guru", Name: "Grammar Guru", Description: "Complete all grammar levels", Icon: "✏️", Condition: BadgeCondition{Kind: CondModule, Threshold: 10, Module: ModuleGrammar}, Rarity: RarityEpic},
	{ID: "spelling-bee", Name: "Spelling Bee", Description: "Complete all spelling levels", Icon: "🐝", Condition: BadgeCondition{Kind: CondModule, Threshold: 10, Module: ModuleSpelling}, Rarity: RarityEpic},
	{ID: "daily-7", Name: "Daily Devotee", Description: "Complete 7 daily challenges", Icon: "📅", Condition: BadgeCondition{Kind: CondDaily, Threshold: 7}, Rarity: RarityRare},
	{ID: "daily-30", Name: "Daily Legend", Description: "Complete 30 daily challenges", Icon: "📅", Condition: BadgeCondition{Kind: CondDaily, Threshold: 30}, Rarity: RarityLegendary},
	{ID: "rich", Name: "Coin Collector", Description: "Earn 500 coins", Icon: "💰", Condition: BadgeCondition{Kind: CondCoins, Threshold: 500}, Rarity: RarityRare},
	{ID: "wealthy", Name: "Treasure Hunter", Description: "Earn 2000 coins", Icon: "💰", Condition: BadgeCondition{Kind: CondCoins, Threshold: 2000}, Rarity: RarityEpic},
}

// BadgeCatalog returns a copy of the full catalog in evaluation order.
func BadgeCatalog() []BadgeSpec {
	return append([]BadgeSpec{}, badgeCatalog...)
}

// BadgeByID looks up a catalog entry.
func BadgeByID(id string) (BadgeSpec, bool) {
	for _, b := range badgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeSpec{}, false
}

// EvaluateBadges scans the catalog against the state and returns the ids of
// badges newly qualifying, in catalog order. It never returns ids already in
// state.Badges and never mutates the state: running it twice with no
// intervening change yields nothing the second time once the caller merges
// the first result.
func EvaluateBadges(state GameState) []string {
	completed := len(state.CompletedLevels)
	perfect := state.PerfectRuns()

	var earned []string
	for _, b := range badgeCatalog {
		if state.HasBadge(b.ID) {
			continue
		}
		ok := false
		switch b.Condition.Kind {
		case CondLevelCount:
			ok = completed >= b.Condition.Threshold
		case CondXP:
			ok = state.XP >= b.Condition.Threshold
		case CondStreak:
			ok = state.Streak >= b.Condition.Threshold
		case CondPerfect:
			ok = perfect >= b.Condition.Threshold
		case CondModule:
			if b.Condition.Module != "" {
				ok = state.ModuleProgress(b.Condition.Module) >= b.Condition.Threshold
			}
		case CondDaily:
			ok = len(state.DailyChallengeCleared) >= b.Condition.Threshold
		case CondCoins:
			ok = state.Coins >= b.Condition.Threshold
		}
		if ok {
			earned = append(earned, b.ID)
		}
	}
	return earned
}
