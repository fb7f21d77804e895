package content

import (
	"testing"
	"testing/fstest"

	"wordquest/core"
)

func TestDefaultCatalogLevels(t *testing.T) {
	c := Default()

	levels := c.Levels(core.LangEN, core.ModuleVocabulary)
	if len(levels) == 0 {
		t.Fatal("expected bundled english vocabulary levels")
	}
	if levels[0].Module != core.ModuleVocabulary {
		t.Fatalf("unexpected module: %s", levels[0].Module)
	}
	if len(levels[0].Questions) == 0 {
		t.Fatal("expected questions in first level")
	}
}

func TestLevelsMissingFileIsEmpty(t *testing.T) {
	c := Default()
	if got := c.Levels(core.LangDE, core.ModuleReading); len(got) != 0 {
		t.Fatalf("expected no levels, got %d", len(got))
	}
}

func TestLevelsByAgeGroup(t *testing.T) {
	c := Default()
	for _, l := range c.LevelsByAgeGroup(core.LangEN, core.ModuleSpelling, core.Age4to6) {
		if l.AgeGroup != core.Age4to6 {
			t.Fatalf("level %s has age group %s", l.ID, l.AgeGroup)
		}
	}
	if n := c.ModuleLevelCount(core.LangEN, core.ModuleSpelling, core.Age4to6); n == 0 {
		t.Fatal("expected spelling levels for 4-6")
	}
}

func TestLevelByID(t *testing.T) {
	c := Default()

	level, ok := c.LevelByID(core.LangEN, core.ModuleVocabulary, "vocabulary-en-1")
	if !ok {
		t.Fatal("expected level vocabulary-en-1")
	}
	if level.Title == "" {
		t.Fatal("expected a title")
	}

	if _, ok := c.LevelByID(core.LangEN, core.ModuleVocabulary, "no-such-level"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestAvailableModules(t *testing.T) {
	young := AvailableModules(core.Age4to6)
	for _, m := range young {
		if m == core.ModuleGrammar {
			t.Fatal("grammar should not be offered to 4-6")
		}
	}
	if len(AvailableModules(core.Age10to12)) != 7 {
		t.Fatalf("expected all 7 modules for 10-12, got %d", len(AvailableModules(core.Age10to12)))
	}
}

func TestCorrectAnswerAcceptsStringOrArray(t *testing.T) {
	fsys := fstest.MapFS{
		"en/reading.json": {Data: []byte(`{
			"module": "reading", "language": "en",
			"levels": [{
				"id": "r1", "moduleSlug": "reading", "title": "t", "description": "d",
				"ageGroup": "7-9", "difficulty": 1, "requiredCorrect": 1,
				"questions": [
					{"id": "q1", "type": "typing", "ageGroups": ["7-9"], "difficulty": 1, "prompt": "p", "correctAnswer": "dog"},
					{"id": "q2", "type": "drag-and-drop", "ageGroups": ["7-9"], "difficulty": 1, "prompt": "p", "correctAnswer": ["a", "b"]}
				]
			}]
		}`)},
	}
	c := NewCatalog(fsys)
	level, ok := c.LevelByID(core.LangEN, core.ModuleReading, "r1")
	if !ok {
		t.Fatal("expected level r1")
	}
	if got := level.Questions[0].CorrectAnswer; len(got) != 1 || got[0] != "dog" {
		t.Fatalf("string answer: %v", got)
	}
	if got := level.Questions[1].CorrectAnswer; len(got) != 2 || got[1] != "b" {
		t.Fatalf("array answer: %v", got)
	}
}

func TestShuffledQuestionsPreservesContent(t *testing.T) {
	c := Default()
	level, ok := c.LevelByID(core.LangEN, core.ModuleVocabulary, "vocabulary-en-1")
	if !ok {
		t.Fatal("expected level")
	}

	shuffled := ShuffledQuestions(level)
	if len(shuffled) != len(level.Questions) {
		t.Fatalf("question count changed: %d != %d", len(shuffled), len(level.Questions))
	}
	seen := map[string]bool{}
	for _, q := range shuffled {
		seen[q.ID] = true
	}
	for _, q := range level.Questions {
		if !seen[q.ID] {
			t.Fatalf("question %s lost in shuffle", q.ID)
		}
	}
	// the original level must not be mutated
	if level.Questions[0].ID != c.Levels(core.LangEN, core.ModuleVocabulary)[0].Questions[0].ID {
		t.Fatal("shuffle mutated cached level")
	}
}
