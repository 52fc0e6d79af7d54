package vocab

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
)

// placeholderChoice pads the option list when the meaning pool runs dry.
const placeholderChoice = "—"

// BuildChoices assembles a 4-option meaning quiz for one word. The correct
// meaning always sits at index 0; distractors prefer the same POS and fall
// back to any POS when the pool is thin. The returned ID keys the word's
// history row.
func BuildChoices(rng *rand.Rand, correct string, pos string) (choices []string, correctIndex int, wordID uuid.UUID) {
	if correct == "" {
		return nil, 0, uuid.New()
	}

	pool := dataset.RandomMeanings(rng, 20, pos)
	if len(pool) < 3 {
		pool = append(pool, dataset.RandomMeanings(rng, 20, "")...)
	}

	seen := map[string]bool{correct: true}
	var dummies []string
	for _, m := range pool {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		dummies = append(dummies, m)
		if len(dummies) == 3 {
			break
		}
	}

	options := append([]string{correct}, dummies...)
	for len(options) < 4 {
		options = append(options, placeholderChoice)
	}

	return options[:4], 0, history.WordID(correct)
}
