package engine

import (
	"context"
	"errors"
	"time"

	"wordquest/core"
)

// SessionPhase is the lifecycle of a single level attempt. Terminal phases
// are session-local: only the aggregate GameState updates persist.
type SessionPhase int

const (
	PhaseLoading SessionPhase = iota
	PhaseActive
	PhaseCompleted
	PhaseFailed
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// ErrSessionNotActive is returned for answers outside the Active phase.
var ErrSessionNotActive = errors.New("session is not active")

// ErrSessionNotCompleted is returned when finishing a session that has not
// answered every question.
var ErrSessionNotCompleted = errors.New("session is not completed")

// Session drives one level attempt against the store: per-answer XP and
// combo bookkeeping while Active, then the completion rewards. Only one
// session is active per app instance, by construction of the caller.
type Session struct {
	store       *Store
	levelID     string
	module      core.ModuleSlug
	total       int
	phase       SessionPhase
	answered    int
	correct     int
	combo       int
	levelBefore int
	dailyDate   string
	startedAt   time.Time
}

// SessionOption configures a session before it begins.
type SessionOption func(*Session)

// AsDailyChallenge marks the session as the daily challenge for date;
// completing it records the date in the aggregate.
func AsDailyChallenge(date string) SessionOption {
	return func(s *Session) { s.dailyDate = date }
}

// NewSession creates a session in the Loading phase.
func NewSession(store *Store, levelID string, module core.ModuleSlug, totalQuestions int, opts ...SessionOption) *Session {
	s := &Session{
		store:   store,
		levelID: levelID,
		module:  module,
		total:   totalQuestions,
		phase:   PhaseLoading,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() SessionPhase { return s.phase }

// Correct returns the count of correct answers so far.
func (s *Session) Correct() int { return s.correct }

// Begin transitions Loading -> Active: hearts refill and the combo clears.
func (s *Session) Begin(ctx context.Context) {
	if s.phase != PhaseLoading {
		return
	}
	s.store.ResetHearts(ctx)
	s.store.SetCombo(ctx, 0)
	s.combo = 0
	s.levelBefore = s.store.State().Level
	s.startedAt = time.Now()
	s.phase = PhaseActive
}

// AnswerOutcome reports the result of a single answered question.
type AnswerOutcome struct {
	Correct  bool `json:"correct"`
	XPEarned int  `json:"xpEarned"`
	Combo    int  `json:"combo"`
	Hearts   int  `json:"hearts"`
	// Done is true once the session reached a terminal phase.
	Done bool `json:"done"`
}

// Answer applies one question result. A correct answer extends the combo
// and earns question XP scaled by the daily-streak multiplier; a miss
// clears the combo and costs a heart. The session fails at zero hearts and
// completes when every question is answered.
func (s *Session) Answer(ctx context.Context, correct bool, secondsTaken float64) (AnswerOutcome, error) {
	if s.phase != PhaseActive {
		return AnswerOutcome{}, ErrSessionNotActive
	}
	out := AnswerOutcome{Correct: correct}
	if correct {
		s.correct++
		s.combo++
		s.store.SetCombo(ctx, s.combo)
		mult := core.StreakMultiplier(s.store.State().Streak)
		xp := core.QuestionXP(true, s.combo, secondsTaken, mult)
		if _, err := s.store.AddXP(ctx, xp); err != nil {
			return AnswerOutcome{}, err
		}
		out.XPEarned = xp
		out.Hearts = s.store.State().Hearts
	} else {
		s.combo = 0
		s.store.SetCombo(ctx, 0)
		out.Hearts = s.store.LoseHeart(ctx)
		if out.Hearts == 0 {
			s.phase = PhaseFailed
		}
	}
	out.Combo = s.combo
	s.answered++
	if s.phase == PhaseActive && s.answered >= s.total {
		s.phase = PhaseCompleted
	}
	out.Done = s.phase == PhaseCompleted || s.phase == PhaseFailed
	return out, nil
}

// Finish applies the completion rewards and returns the session summary.
// Valid only in the Completed phase; a failed session awards nothing
// beyond the per-question XP already granted.
func (s *Session) Finish(ctx context.Context) (core.LevelResult, error) {
	if s.phase != PhaseCompleted {
		return core.LevelResult{}, ErrSessionNotCompleted
	}
	perfect := s.correct == s.total
	xp := core.LevelCompleteXP(s.correct, s.total, perfect)
	coins := core.CoinsEarned(s.correct, s.total, perfect)
	stars := core.StarsEarned(s.correct, s.total)

	if _, err := s.store.AddXP(ctx, xp); err != nil {
		return core.LevelResult{}, err
	}
	if _, err := s.store.AddCoins(ctx, coins); err != nil {
		return core.LevelResult{}, err
	}
	s.store.CompleteLevel(ctx, core.CompletedLevel{
		Module:     s.module,
		LevelID:    s.levelID,
		Stars:      stars,
		BestScore:  s.correct,
		PerfectRun: perfect,
	})
	s.store.UpdateStreak(ctx)
	if s.dailyDate != "" {
		s.store.CompleteDailyChallenge(ctx, s.dailyDate)
	}
	newBadges := s.store.EvaluateBadges(ctx)

	after := s.store.State()
	return core.LevelResult{
		LevelID:    s.levelID,
		Module:     s.module,
		Correct:    s.correct,
		Total:      s.total,
		XPEarned:   xp,
		Coins:      coins,
		Stars:      stars,
		PerfectRun: perfect,
		NewBadges:  newBadges,
		LeveledUp:  after.Level > s.levelBefore,
		NewLevel:   after.Level,
	}, nil
}
