package core

import "time"

// DateLayout is the ISO calendar-day format used everywhere dates cross a
// boundary (persistence, streaks, daily challenges).
const DateLayout = "2006-01-02"

// Today returns the current local calendar day.
func Today() string {
	return time.Now().Format(DateLayout)
}

// AdvanceStreak computes the next streak value from the last-played date.
// It returns the new streak and whether today counts as a new play day.
// Callers must write today into lastPlayedDate when newDay is true and must
// skip all mutation when it is false, which makes repeated calls within one
// day idempotent. Dates are trusted to be well-formed ISO calendar days.
func AdvanceStreak(lastPlayed string, streak int, today string) (int, bool) {
	if lastPlayed == "" {
		return 1, true
	}
	if lastPlayed == today {
		return streak, false
	}
	last, err1 := time.Parse(DateLayout, lastPlayed)
	now, err2 := time.Parse(DateLayout, today)
	if err1 == nil && err2 == nil {
		if int(now.Sub(last).Hours()/24) == 1 {
			return streak + 1, true
		}
	}
	// Gap of more than one day, or a clock anomaly: start over.
	return 1, true
}
