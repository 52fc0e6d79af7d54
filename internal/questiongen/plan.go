package questiongen

import (
	"math/rand/v2"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/toeic"
)

// BuildPlans allocates total slots evenly across the enabled types and
// attaches per-slot context: a random business scene, plus a grammar topic,
// a target word, or a POS label depending on the slot type.
//
// When total does not divide evenly, the remainder goes to the first types
// in the given order. The final slot sequence is shuffled so types are
// interleaved rather than grouped.
func BuildPlans(rng *rand.Rand, level toeic.Level, types []toeic.QuestionType, total int) []toeic.ItemPlan {
	if len(types) == 0 || total <= 0 {
		return nil
	}

	base := total / len(types)
	rem := total % len(types)

	slots := make([]toeic.QuestionType, 0, total)
	for i, t := range types {
		n := base
		if i < rem {
			n++
		}
		for range n {
			slots = append(slots, t)
		}
	}
	rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})

	score := level.Score()

	plans := make([]toeic.ItemPlan, 0, total)
	for i := range total {
		t := slots[i]

		plan := toeic.ItemPlan{
			Index:     i + 1,
			Type:      t,
			SceneText: dataset.RandomScene(rng).PromptText(),
		}

		switch t {
		case toeic.TypeGrammar:
			plan.GrammarSubcategory = dataset.RandomGrammarTopic(rng, level)
		case toeic.TypeVocabulary:
			if w, ok := dataset.RandomWordApprox(rng, score); ok {
				plan.Vocab = &toeic.PlanVocab{
					Headword: w.Word,
					Meaning:  w.Meaning,
					POS:      w.POS,
				}
			}
		case toeic.TypePartOfSpeech:
			plan.POS = dataset.RandomPOSLabel(rng)
		}

		plans = append(plans, plan)
	}
	return plans
}
