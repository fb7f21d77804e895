package core

import "math"

// MaxLevel is the level cap; XP beyond its threshold still maps to MaxLevel.
const MaxLevel = 50

// levelThresholds[L] is the cumulative XP required to reach level L.
// floor(50 * L^1.8) for L >= 1, 0 for L == 0.
var levelThresholds = buildThresholds()

func buildThresholds() [MaxLevel + 1]int {
	var t [MaxLevel + 1]int
	for i := 1; i <= MaxLevel; i++ {
		t[i] = int(math.Floor(50 * math.Pow(float64(i), 1.8)))
	}
	return t
}

// LevelThreshold returns the cumulative XP required for the given level.
// Levels outside [0,50] are clamped to the table bounds.
func LevelThreshold(level int) int {
	if level <= 0 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level]
}

// LevelFromXP returns the greatest level whose threshold is covered by xp,
// floored at 1 so a brand-new player is level 1.
func LevelFromXP(xp int) int {
	for i := MaxLevel; i >= 1; i-- {
		if xp >= levelThresholds[i] {
			return i
		}
	}
	return 1
}

// XPForNextLevel returns the cumulative XP needed to reach the next level.
// At the cap this is the cap's own threshold.
func XPForNextLevel(level int) int {
	if level >= MaxLevel {
		return levelThresholds[MaxLevel]
	}
	return LevelThreshold(level + 1)
}

// levelTitles maps named tiers (sparse) to display titles.
var levelTitles = []struct {
	level int
	title string
}{
	{50, "Word Quest Champion"},
	{45, "Legend"},
	{40, "Grand Master"},
	{35, "Master Scholar"},
	{30, "Language Hero"},
	{25, "Word Wizard"},
	{20, "Grammar Knight"},
	{15, "Sentence Builder"},
	{10, "Word Collector"},
	{5, "Explorer"},
	{1, "Beginner"},
}

// LevelTitle returns the title of the highest named tier at or below level.
func LevelTitle(level int) string {
	for _, t := range levelTitles {
		if level >= t.level {
			return t.title
		}
	}
	return "Beginner"
}

// XPProgress returns the fraction of the way from the current level's
// threshold to the next, clamped to [0,1]. Display-only.
func XPProgress(xp, level int) float64 {
	cur := LevelThreshold(level)
	next := XPForNextLevel(level)
	if next <= cur {
		return 1
	}
	p := float64(xp-cur) / float64(next-cur)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// QuestionXP computes the reward for a single answered question.
// combo is the correct-answer streak including this answer.
func QuestionXP(correct bool, combo int, secondsTaken float64, streakMultiplier float64) int {
	if !correct {
		return 0
	}
	xp := 10
	bonus := combo * 2
	if bonus > 20 {
		bonus = 20
	}
	xp += bonus
	if secondsTaken < 5 {
		xp += 5
	}
	return int(math.Floor(float64(xp) * streakMultiplier))
}

// LevelCompleteXP computes the completion reward. A perfect run earns the
// flat perfect bonus only; the accuracy bonus applies solely to non-perfect
// runs. The two never stack.
func LevelCompleteXP(correct, total int, perfectRun bool) int {
	xp := 50
	if perfectRun {
		return xp + 100
	}
	if total > 0 {
		accuracy := float64(correct) / float64(total)
		switch {
		case accuracy >= 0.9:
			xp += 30
		case accuracy >= 0.7:
			xp += 15
		}
	}
	return xp
}

// CoinsEarned computes the coin reward for a finished level.
func CoinsEarned(correct, total int, perfectRun bool) int {
	base := 0
	if total > 0 {
		base = int(math.Floor(float64(correct) / float64(total) * 30))
	}
	if perfectRun {
		return base + 20
	}
	return base + 10
}

// StarsEarned maps the correct-answer ratio to a 0-3 star rating.
func StarsEarned(correct, total int) int {
	if total <= 0 {
		return 0
	}
	ratio := float64(correct) / float64(total)
	switch {
	case ratio >= 0.95:
		return 3
	case ratio >= 0.7:
		return 2
	case ratio >= 0.5:
		return 1
	}
	return 0
}

// StreakMultiplier scales question XP by daily-streak length.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 2.0
	case streak >= 14:
		return 1.75
	case streak >= 7:
		return 1.5
	case streak >= 3:
		return 1.25
	}
	return 1.0
}
