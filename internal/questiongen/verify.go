package questiongen

import (
	"strings"

	"github.com/ktnk/toeiq/internal/toeic"
)

// verifyInput is one draft item as sent to the reviewer.
type verifyInput struct {
	Index   int      `json:"index"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// verifyPayload wraps the drafts for the verification prompt.
type verifyPayload struct {
	Questions []verifyInput `json:"questions"`
}

// verifiedItem is one reviewer verdict. Choices is optional; when present
// with exactly 4 entries it replaces the draft options.
type verifiedItem struct {
	Index                int      `json:"index"`
	Type                 string   `json:"type"`
	Prompt               string   `json:"prompt"`
	Choices              []string `json:"choices"`
	Explanation          string   `json:"explanation"`
	FilledSentence       string   `json:"filled_sentence"`
	FilledSentenceJa     string   `json:"filled_sentence_ja"`
	ChoiceTranslationsJa []string `json:"choice_translations_ja"`
}

type verifyEnvelope struct {
	Verified []verifiedItem `json:"verified"`
}

// mergeVerified folds reviewer verdicts back into the drafts. A draft whose
// index the reviewer omitted is dropped: omission is the reviewer's way of
// failing an item. Reviewer choices replace the draft's only when exactly 4
// are given; the merged options must then pass the structural gate of 4
// pairwise-distinct entries, compared trimmed and lowercased.
func mergeVerified(drafts []toeic.Question, env verifyEnvelope) []toeic.Question {
	verdicts := make(map[int]verifiedItem, len(env.Verified))
	for _, v := range env.Verified {
		verdicts[v.Index] = v
	}

	merged := make([]toeic.Question, 0, len(drafts))
	for idx, q := range drafts {
		v, ok := verdicts[idx]
		if !ok {
			continue
		}

		choices := q.Choices
		if len(v.Choices) == 4 {
			choices = v.Choices
		}
		if !distinctChoices(choices) {
			continue
		}

		q.Choices = choices
		q.AnswerIndex = 0
		q.Explanation = NormalizeExplanation(v.Explanation)
		q.FilledSentence = v.FilledSentence
		q.FilledSentenceJa = v.FilledSentenceJa
		q.ChoiceTranslationsJa = v.ChoiceTranslationsJa
		merged = append(merged, q)
	}
	return merged
}

// distinctChoices reports whether there are exactly 4 options with no
// duplicates after trimming and lowercasing.
func distinctChoices(choices []string) bool {
	if len(choices) != 4 {
		return false
	}
	seen := make(map[string]bool, 4)
	for _, c := range choices {
		key := strings.ToLower(strings.TrimSpace(c))
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}
