package core

import (
	"sort"
	"time"
)

// dailyRotation is the fixed module pool for daily challenges. Order matters:
// the date-seeded draw indexes into it, so reordering changes which module a
// given date selects for every player.
var dailyRotation = []ModuleSlug{
	ModuleVocabulary,
	ModuleSpelling,
	ModuleSentences,
	ModuleGrammar,
	ModuleReading,
}

// DailyRotation returns a copy of the daily challenge module pool.
func DailyRotation() []ModuleSlug {
	return append([]ModuleSlug{}, dailyRotation...)
}

// DailySeed derives a deterministic 31-bit non-negative seed from an ISO date
// string using a polynomial hash over 32-bit signed arithmetic. The exact bit
// pattern is a cross-client contract: every platform must pick the same
// module for the same date.
func DailySeed(date string) int64 {
	var h int32
	for _, c := range date {
		h = h<<5 - h + int32(c)
	}
	if h < 0 {
		return -int64(h)
	}
	return int64(h)
}

const lcgModulus = 1 << 31 // 2^31

// DailyModule selects the challenge module for a calendar date. The seed is
// run once through a linear-congruential generator before the draw.
func DailyModule(date string) ModuleSlug {
	s := DailySeed(date)
	s = (s*1103515245 + 12345) % lcgModulus
	draw := float64(s) / float64(lcgModulus-1)
	idx := int(draw * float64(len(dailyRotation)))
	if idx >= len(dailyRotation) {
		idx = len(dailyRotation) - 1
	}
	return dailyRotation[idx]
}

// DailyStreak counts consecutive daily-challenge days ending today. If the
// most recent completion is not today the streak is 0.
func DailyStreak(completedDates []string, today string) int {
	if len(completedDates) == 0 {
		return 0
	}
	sorted := append([]string{}, completedDates...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))
	if sorted[0] != today {
		return 0
	}
	streak := 1
	for i := 1; i < len(sorted); i++ {
		prev, err1 := time.Parse(DateLayout, sorted[i-1])
		cur, err2 := time.Parse(DateLayout, sorted[i])
		if err1 != nil || err2 != nil {
			break
		}
		if int(prev.Sub(cur).Hours()/24) != 1 {
			break
		}
		streak++
	}
	return streak
}
