package core

import "testing"

func TestAdvanceStreakFirstPlay(t *testing.T) {
	for _, streak := range []int{0, 1, 99} {
		s, newDay := AdvanceStreak("", streak, "2024-03-15")
		if s != 1 || !newDay {
			t.Fatalf("first play: got (%d,%v), want (1,true)", s, newDay)
		}
	}
}

func TestAdvanceStreakSameDay(t *testing.T) {
	s, newDay := AdvanceStreak("2024-03-15", 6, "2024-03-15")
	if s != 6 || newDay {
		t.Fatalf("same day: got (%d,%v), want (6,false)", s, newDay)
	}
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	s, newDay := AdvanceStreak("2024-03-14", 6, "2024-03-15")
	if s != 7 || !newDay {
		t.Fatalf("yesterday: got (%d,%v), want (7,true)", s, newDay)
	}
	// a 7-day streak bumps the question multiplier
	if StreakMultiplier(s) != 1.5 {
		t.Fatalf("multiplier after 7-day streak = %f, want 1.5", StreakMultiplier(s))
	}
}

func TestAdvanceStreakAcrossMonthBoundary(t *testing.T) {
	s, newDay := AdvanceStreak("2024-02-29", 10, "2024-03-01")
	if s != 11 || !newDay {
		t.Fatalf("month boundary: got (%d,%v), want (11,true)", s, newDay)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	s, newDay := AdvanceStreak("2024-03-10", 12, "2024-03-15")
	if s != 1 || !newDay {
		t.Fatalf("gap: got (%d,%v), want (1,true)", s, newDay)
	}
}

func TestAdvanceStreakClockAnomalyResets(t *testing.T) {
	// last played "after" today: treat like any other gap
	s, newDay := AdvanceStreak("2024-03-20", 12, "2024-03-15")
	if s != 1 || !newDay {
		t.Fatalf("anomaly: got (%d,%v), want (1,true)", s, newDay)
	}
}
