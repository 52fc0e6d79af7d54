package toeic

// PlanVocab is the target word attached to a vocabulary plan slot.
type PlanVocab struct {
	Headword string `json:"headword"`
	Meaning  string `json:"meaning,omitempty"`
	POS      string `json:"pos,omitempty"`
}

// ItemPlan is one slot of a generation request. Exactly one of
// GrammarSubcategory, Vocab, or POS is populated, matching Type.
// Plans are built fresh per request and never reused.
type ItemPlan struct {
	// Index is 1-based and unique within the batch.
	Index int          `json:"index"`
	Type  QuestionType `json:"type"`

	// SceneText describes the business scene the sentence should inhabit.
	SceneText string `json:"sceneText"`

	// GrammarSubcategory targets an exact grammar rule (grammar type only).
	GrammarSubcategory string `json:"grammarSubcategory,omitempty"`

	// Vocab is the word that must appear as choices[0] (vocabulary type only).
	Vocab *PlanVocab `json:"vocab,omitempty"`

	// POS is the required part-of-speech label (partOfSpeech type only).
	POS string `json:"pos,omitempty"`
}

// VocabRange is a contiguous 1-based slice of a word list.
type VocabRange struct {
	Start int
	End   int
}

// SplitRange chops a range into chunk-sized windows for the range picker.
func SplitRange(r VocabRange, chunk int) []VocabRange {
	if chunk < 1 {
		chunk = 1
	}
	var out []VocabRange
	for s := r.Start; s <= r.End; s += chunk {
		e := min(s+chunk-1, r.End)
		out = append(out, VocabRange{Start: s, End: e})
	}
	return out
}

// Score is the outcome of one finished session batch.
type Score struct {
	Total   int
	Correct int
}
