// Package content loads lesson levels from JSON files laid out as
// data/{language}/{module}.json. The default catalog embeds the bundled
// content so binaries ship self-contained; tests and tools can point a
// Catalog at any fs.FS with the same layout.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/rand"
	"path"
	"sync"

	"wordquest/core"
)

//go:embed data
var embedded embed.FS

// QuestionType identifies the interaction style of a question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionDragAndDrop    QuestionType = "drag-and-drop"
	QuestionTyping         QuestionType = "typing"
	QuestionMatchPairs     QuestionType = "match-pairs"
	QuestionFillInBlank    QuestionType = "fill-in-blank"
	QuestionTrueFalse      QuestionType = "true-false"
)

// Pair is a left/right card for match-pairs questions.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is a single exercise within a level.
type Question struct {
	ID            string          `json:"id"`
	Type          QuestionType    `json:"type"`
	AgeGroups     []core.AgeGroup `json:"ageGroups"`
	Difficulty    int             `json:"difficulty"`
	Prompt        string          `json:"prompt"`
	Hint          string          `json:"hint,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer []string        `json:"correctAnswer"`
	Explanation   string          `json:"explanation,omitempty"`
	Words         []string        `json:"words,omitempty"`
	Pairs         []Pair          `json:"pairs,omitempty"`
	Sentence      string          `json:"sentence,omitempty"`
	BlankIndex    int             `json:"blankIndex,omitempty"`
}

// UnmarshalJSON accepts correctAnswer as either a string or an array,
// matching the content files.
func (q *Question) UnmarshalJSON(b []byte) error {
	type alias Question
	aux := struct {
		CorrectAnswer json.RawMessage `json:"correctAnswer"`
		*alias
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if len(aux.CorrectAnswer) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(aux.CorrectAnswer, &single); err == nil {
		q.CorrectAnswer = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(aux.CorrectAnswer, &many); err != nil {
		return fmt.Errorf("invalid correctAnswer: %w", err)
	}
	q.CorrectAnswer = many
	return nil
}

// Level is a playable set of questions within a module.
type Level struct {
	ID              string          `json:"id"`
	Module          core.ModuleSlug `json:"moduleSlug"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	AgeGroup        core.AgeGroup   `json:"ageGroup"`
	Difficulty      int             `json:"difficulty"`
	Questions       []Question      `json:"questions"`
	RequiredCorrect int             `json:"requiredCorrect"`
	TimeLimit       int             `json:"timeLimit,omitempty"`
}

type contentFile struct {
	Module   core.ModuleSlug `json:"module"`
	Language core.Language   `json:"language"`
	Levels   []Level         `json:"levels"`
}

// Catalog serves levels from a content filesystem. Files are parsed on
// first access and cached; missing files read as empty modules so the
// UI never hard-fails on thin content.
type Catalog struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[string][]Level
}

// NewCatalog builds a catalog over the given filesystem, rooted at a
// directory containing {language}/{module}.json files.
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys, cache: map[string][]Level{}}
}

// Default returns the catalog backed by the embedded content.
func Default() *Catalog {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic("content: embedded data missing: " + err.Error())
	}
	return NewCatalog(sub)
}

func (c *Catalog) load(lang core.Language, module core.ModuleSlug) []Level {
	key := string(lang) + "/" + string(module)
	c.mu.Lock()
	defer c.mu.Unlock()
	if levels, ok := c.cache[key]; ok {
		return levels
	}
	b, err := fs.ReadFile(c.fsys, path.Join(string(lang), string(module)+".json"))
	if err != nil {
		c.cache[key] = nil
		return nil
	}
	var file contentFile
	if err := json.Unmarshal(b, &file); err != nil {
		c.cache[key] = nil
		return nil
	}
	c.cache[key] = file.Levels
	return file.Levels
}

// Levels returns all levels for a language and module, empty when the
// content file is missing.
func (c *Catalog) Levels(lang core.Language, module core.ModuleSlug) []Level {
	return c.load(lang, module)
}

// LevelsByAgeGroup filters a module's levels to one age band.
func (c *Catalog) LevelsByAgeGroup(lang core.Language, module core.ModuleSlug, age core.AgeGroup) []Level {
	var out []Level
	for _, l := range c.load(lang, module) {
		if l.AgeGroup == age {
			out = append(out, l)
		}
	}
	return out
}

// LevelByID looks a level up by id within a module.
func (c *Catalog) LevelByID(lang core.Language, module core.ModuleSlug, id string) (Level, bool) {
	for _, l := range c.load(lang, module) {
		if l.ID == id {
			return l, true
		}
	}
	return Level{}, false
}

// ModuleLevelCount counts a module's levels for one age band.
func (c *Catalog) ModuleLevelCount(lang core.Language, module core.ModuleSlug, age core.AgeGroup) int {
	return len(c.LevelsByAgeGroup(lang, module, age))
}

// AvailableModules lists the modules offered to an age band. The
// youngest band skips grammar.
func AvailableModules(age core.AgeGroup) []core.ModuleSlug {
	if age == core.Age4to6 {
		return []core.ModuleSlug{
			core.ModulePhonics, core.ModuleVocabulary, core.ModuleSpelling,
			core.ModuleSentences, core.ModuleWriting, core.ModuleReading,
		}
	}
	return []core.ModuleSlug{
		core.ModulePhonics, core.ModuleVocabulary, core.ModuleSpelling,
		core.ModuleSentences, core.ModuleGrammar, core.ModuleReading,
		core.ModuleWriting,
	}
}

// ShuffledQuestions returns a copy of the level's questions in random
// order, with each question's options shuffled too.
func ShuffledQuestions(level Level) []Question {
	questions := make([]Question, len(level.Questions))
	copy(questions, level.Questions)
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	for i := range questions {
		if len(questions[i].Options) == 0 {
			continue
		}
		options := make([]string, len(questions[i].Options))
		copy(options, questions[i].Options)
		rand.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})
		questions[i].Options = options
	}
	return questions
}
