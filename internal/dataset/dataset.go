// Package dataset serves the static word, grammar, and scene lists bundled
// with the binary. All lists are embedded JSON parsed once on first use;
// malformed embedded data is a build defect and panics.
package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ktnk/toeiq/internal/toeic"
)

//go:embed data/*.json
var dataFS embed.FS

// Scene is one business situation a question sentence should inhabit.
type Scene struct {
	CategoryID string
	LabelJa    string
	Text       string
}

// PromptText renders the scene the way generation plans embed it.
func (s Scene) PromptText() string {
	return fmt.Sprintf("%sに関する%sのシーンです", s.LabelJa, s.Text)
}

// ScoreWord is a target vocabulary entry from the score-banded list.
type ScoreWord struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	POS     string `json:"pos"`
}

// ScoreBand groups words by approximate TOEIC score.
type ScoreBand struct {
	Score int
	Words []ScoreWord
}

// NgslWord is one entry of the drill word list.
type NgslWord struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	POS     string `json:"pos"`
}

// NgslCategory names a band of the drill word list.
type NgslCategory string

const (
	CategoryEssential NgslCategory = "essential"
	CategoryFrequent1 NgslCategory = "frequent1"
	CategoryFrequent2 NgslCategory = "frequent2"
)

// POSLabels is the closed part-of-speech table for partOfSpeech plans.
var POSLabels = []string{
	"名詞 (noun)",
	"動詞 (verb)",
	"形容詞 (adjective)",
	"副詞 (adverb)",
	"前置詞 (preposition)",
	"接続詞 (conjunction)",
	"動詞形 (verb form)",
	"代名詞 (pronoun)",
	"冠詞 (article)",
	"関係詞 (relative pronoun)",
}

type scenesFile struct {
	Categories []struct {
		ID      string   `json:"id"`
		LabelJa string   `json:"label_ja"`
		Scenes  []string `json:"scenes"`
	} `json:"categories"`
}

type cefrFile struct {
	GrammarByCEFR []struct {
		Level  string   `json:"level"`
		Topics []string `json:"topics"`
	} `json:"grammar_by_cefr"`
}

type grammarFile struct {
	Subcategories []string `json:"subcategories"`
}

var (
	loadOnce sync.Once

	allScenes      []Scene
	topicsByCEFR   map[string][]string
	subcategories  []string
	scoreBands     []ScoreBand
	ngslByCategory map[NgslCategory][]NgslWord
)

func load() {
	loadOnce.Do(func() {
		var sf scenesFile
		mustParse("data/scenes.json", &sf)
		for _, cat := range sf.Categories {
			for _, text := range cat.Scenes {
				allScenes = append(allScenes, Scene{CategoryID: cat.ID, LabelJa: cat.LabelJa, Text: text})
			}
		}

		var cf cefrFile
		mustParse("data/cefr_grammar.json", &cf)
		topicsByCEFR = make(map[string][]string, len(cf.GrammarByCEFR))
		for _, e := range cf.GrammarByCEFR {
			topicsByCEFR[e.Level] = e.Topics
		}

		var gf grammarFile
		mustParse("data/grammar.json", &gf)
		subcategories = gf.Subcategories

		// score_words.json keys are "score300", "score400", ... Convert to
		// sorted bands, skipping empty ones.
		var raw map[string][]ScoreWord
		mustParse("data/score_words.json", &raw)
		for k, words := range raw {
			s, err := strconv.Atoi(strings.TrimPrefix(k, "score"))
			if err != nil || len(words) == 0 {
				continue
			}
			scoreBands = append(scoreBands, ScoreBand{Score: s, Words: words})
		}
		sort.Slice(scoreBands, func(i, j int) bool { return scoreBands[i].Score < scoreBands[j].Score })

		var nraw map[string][]NgslWord
		mustParse("data/ngsl_words.json", &nraw)
		ngslByCategory = make(map[NgslCategory][]NgslWord, len(nraw))
		for k, words := range nraw {
			if len(words) == 0 {
				continue
			}
			ngslByCategory[NgslCategory(strings.ToLower(k))] = words
		}
	})
}

func mustParse(name string, v any) {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("dataset: read %s: %v", name, err))
	}
	if err := json.Unmarshal(data, v); err != nil {
		panic(fmt.Sprintf("dataset: parse %s: %v", name, err))
	}
}

// RandomScene picks one scene across all categories.
func RandomScene(rng *rand.Rand) Scene {
	load()
	return allScenes[rng.IntN(len(allScenes))]
}

// RandomGrammarTopic picks a grammar topic from the CEFR bands mapped to the
// level. When the filtered pool is empty it falls back to an unfiltered
// grammar subcategory.
func RandomGrammarTopic(rng *rand.Rand, level toeic.Level) string {
	load()
	var pool []string
	for _, band := range level.CEFRBands() {
		pool = append(pool, topicsByCEFR[band]...)
	}
	if len(pool) == 0 {
		return RandomGrammarSubcategory(rng)
	}
	return pool[rng.IntN(len(pool))]
}

// RandomGrammarSubcategory picks from the flat subcategory list.
func RandomGrammarSubcategory(rng *rand.Rand) string {
	load()
	return subcategories[rng.IntN(len(subcategories))]
}

// RandomWordApprox picks a word from the band whose score is nearest to
// approx. Ties resolve to the lower band.
func RandomWordApprox(rng *rand.Rand, approx int) (ScoreWord, bool) {
	load()
	if len(scoreBands) == 0 {
		return ScoreWord{}, false
	}
	best := scoreBands[0]
	for _, b := range scoreBands[1:] {
		if abs(b.Score-approx) < abs(best.Score-approx) {
			best = b
		}
	}
	return best.Words[rng.IntN(len(best.Words))], true
}

// BandScores lists the available score bands in ascending order.
func BandScores() []int {
	load()
	out := make([]int, len(scoreBands))
	for i, b := range scoreBands {
		out[i] = b.Score
	}
	return out
}

// RandomPOSLabel picks one entry from the part-of-speech table.
func RandomPOSLabel(rng *rand.Rand) string {
	return POSLabels[rng.IntN(len(POSLabels))]
}

// Words returns the drill word list for a category, in list order.
// The returned slice is shared; callers must not mutate it.
func Words(cat NgslCategory) []NgslWord {
	load()
	return ngslByCategory[cat]
}

// Categories lists the available drill word categories in a stable order.
func Categories() []NgslCategory {
	load()
	out := make([]NgslCategory, 0, len(ngslByCategory))
	for cat := range ngslByCategory {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RandomMeanings samples up to count meanings across all categories,
// optionally restricted to a part of speech. Used to build distractor pools
// for word drills. Duplicates are possible; callers dedupe.
func RandomMeanings(rng *rand.Rand, count int, pos string) []string {
	load()
	var pool []NgslWord
	for _, words := range ngslByCategory {
		for _, w := range words {
			if pos == "" || w.POS == pos {
				pool = append(pool, w)
			}
		}
	}
	if len(pool) == 0 {
		return nil
	}
	out := make([]string, 0, count)
	for range count {
		out = append(out, pool[rng.IntN(len(pool))].Meaning)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
