package core

import (
	"encoding/json"
	"testing"
)

func TestNewProfileValidation(t *testing.T) {
	p, err := NewProfile("Mila", Age7to9, "fox", LangEN, LangDE)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Fatalf("profile missing generated fields: %+v", p)
	}
	if _, err := NewProfile("   ", Age7to9, "fox", LangEN, LangDE); err == nil {
		t.Fatalf("expected empty name error")
	}
	if _, err := NewProfile("Mila", "5-8", "fox", LangEN, LangDE); err == nil {
		t.Fatalf("expected age group error")
	}
}

func TestNewGameStateDefaults(t *testing.T) {
	st := NewGameState()
	if st.Level != 1 || st.Hearts != MaxHearts() || st.XP != 0 {
		t.Fatalf("unexpected defaults: %+v", st)
	}
	if st.CompletedLevels == nil || st.Badges == nil {
		t.Fatalf("collections must be initialized")
	}
}

func TestGameStateCloneIsDeep(t *testing.T) {
	st := NewGameState()
	p, _ := NewProfile("Mila", Age7to9, "fox", LangEN, LangEN)
	st.Profile = &p
	st.CompletedLevels["v1"] = CompletedLevel{Module: ModuleVocabulary, LevelID: "v1"}
	st.Badges = append(st.Badges, "first-steps")

	cp := st.Clone()
	cp.Profile.Name = "Other"
	cp.CompletedLevels["v2"] = CompletedLevel{LevelID: "v2"}
	cp.Badges[0] = "changed"

	if st.Profile.Name != "Mila" {
		t.Fatalf("profile not deep-copied")
	}
	if len(st.CompletedLevels) != 1 {
		t.Fatalf("completed levels not deep-copied")
	}
	if st.Badges[0] != "first-steps" {
		t.Fatalf("badges not deep-copied")
	}
}

func TestNormalizeToleratesPartialSnapshot(t *testing.T) {
	// a snapshot written by an older schema: only a few fields present
	var st GameState
	if err := json.Unmarshal([]byte(`{"xp":340,"coins":12}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	st.Normalize()
	if st.CompletedLevels == nil || st.Badges == nil || st.ShopPurchases == nil {
		t.Fatalf("nil collections after normalize")
	}
	if st.Level != LevelFromXP(340) {
		t.Fatalf("level %d not recomputed from xp", st.Level)
	}
	if st.Version != StateVersion {
		t.Fatalf("version not stamped")
	}
}

func TestNormalizeClampsHearts(t *testing.T) {
	st := NewGameState()
	st.Hearts = 9
	st.Normalize()
	if st.Hearts != MaxHearts() {
		t.Fatalf("hearts = %d, want %d", st.Hearts, MaxHearts())
	}
}

func TestStateQueries(t *testing.T) {
	st := NewGameState()
	st.Badges = append(st.Badges, "first-steps")
	st.ShopPurchases = append(st.ShopPurchases, "theme-ocean")
	st.DailyChallengeCleared = append(st.DailyChallengeCleared, "2024-03-15")
	st.CompletedLevels["g1"] = CompletedLevel{Module: ModuleGrammar, PerfectRun: true}
	st.CompletedLevels["g2"] = CompletedLevel{Module: ModuleGrammar}

	if !st.HasBadge("first-steps") || st.HasBadge("xp-100") {
		t.Fatalf("HasBadge wrong")
	}
	if !st.HasPurchase("theme-ocean") || st.HasPurchase("theme-space") {
		t.Fatalf("HasPurchase wrong")
	}
	if !st.DailyCompleted("2024-03-15") || st.DailyCompleted("2024-03-16") {
		t.Fatalf("DailyCompleted wrong")
	}
	if st.ModuleProgress(ModuleGrammar) != 2 || st.ModuleProgress(ModuleReading) != 0 {
		t.Fatalf("ModuleProgress wrong")
	}
	if st.PerfectRuns() != 1 {
		t.Fatalf("PerfectRuns wrong")
	}
}

func TestShopCatalogLookup(t *testing.T) {
	it, ok := ShopItemByID("theme-ocean")
	if !ok || it.Cost != 100 || it.Type != ItemTheme {
		t.Fatalf("unexpected item %+v ok=%v", it, ok)
	}
	if _, ok := ShopItemByID("nope"); ok {
		t.Fatalf("unknown item should not resolve")
	}
	if len(ShopCatalog()) == 0 {
		t.Fatalf("catalog should not be empty")
	}
}
