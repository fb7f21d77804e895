// Command wordquest-demo plays a scripted level against an in-memory
// store and logs every game event, useful for eyeballing the
// progression rules end to end.
package main

import (
	"context"
	"log/slog"
	"os"

	"wordquest/content"
	"wordquest/core"
	"wordquest/engine"
	"wordquest/quest"
)

func main() {
	// Use readable text logging for development/demo
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(textHandler))

	ctx := context.Background()
	store := quest.New(ctx, quest.WithDispatchMode(engine.DispatchSync))
	defer store.Close()

	for _, typ := range core.EventTypes() {
		store.Subscribe(typ, func(_ context.Context, e core.Event) {
			slog.Info("event", "type", e.Type, "delta", e.Delta, "total", e.Total,
				"level", e.Level, "badge", e.BadgeID, "item", e.ItemID)
		})
	}

	profile, err := core.NewProfile("Demo Kid", core.Age7to9, "fox", core.LangEN, core.LangEN)
	if err != nil {
		slog.Error("build profile", "error", err)
		os.Exit(1)
	}
	if err := store.SetProfile(ctx, profile); err != nil {
		slog.Error("set profile", "error", err)
		os.Exit(1)
	}

	catalog := content.Default()
	level, ok := catalog.LevelByID(core.LangEN, core.ModuleVocabulary, "vocabulary-en-1")
	if !ok {
		slog.Error("bundled level missing")
		os.Exit(1)
	}

	slog.Info("playing level", "id", level.ID, "title", level.Title, "questions", len(level.Questions))

	session := engine.NewSession(store, level.ID, level.Module, len(level.Questions))
	session.Begin(ctx)

	for i, q := range content.ShuffledQuestions(level) {
		// miss the third question to show hearts and combo resets
		correct := i != 2
		outcome, err := session.Answer(ctx, correct, 3.5)
		if err != nil {
			slog.Error("answer", "error", err)
			os.Exit(1)
		}
		slog.Info("answered", "question", q.ID, "correct", outcome.Correct,
			"xp", outcome.XPEarned, "combo", outcome.Combo, "hearts", outcome.Hearts)
	}

	result, err := session.Finish(ctx)
	if err != nil {
		slog.Error("finish", "error", err)
		os.Exit(1)
	}

	state := store.State()
	slog.Info("level complete",
		"stars", result.Stars,
		"xp_earned", result.XPEarned,
		"coins_earned", result.Coins,
		"new_badges", result.NewBadges,
		"leveled_up", result.LeveledUp)
	slog.Info("final state",
		"xp", state.XP,
		"level", state.Level,
		"title", core.LevelTitle(state.Level),
		"coins", state.Coins,
		"streak", state.Streak,
		"daily_module", core.DailyModule(core.Today()))
}
