package questiongen

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/toeic"
)

func draftBatch(n int) []toeic.Question {
	out := make([]toeic.Question, n)
	for i := range out {
		out[i] = toeic.Question{
			ID:          uuid.New(),
			Type:        toeic.TypeGrammar,
			Prompt:      "The shipment (____) on time.",
			Choices:     []string{"arrived", "arrive", "arriving", "arrives"},
			AnswerIndex: 0,
		}
	}
	return out
}

func TestMergeVerified_DropsOmittedIndexes(t *testing.T) {
	drafts := draftBatch(3)
	env := verifyEnvelope{Verified: []verifiedItem{
		{Index: 0, Explanation: "説明0"},
		{Index: 2, Explanation: "説明2"},
	}}

	merged := mergeVerified(drafts, env)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(merged))
	}
	if merged[0].ID != drafts[0].ID || merged[1].ID != drafts[2].ID {
		t.Fatal("merged items do not correspond to retained drafts")
	}
}

func TestMergeVerified_ReplacesChoicesOnlyWhenExactlyFour(t *testing.T) {
	drafts := draftBatch(2)
	env := verifyEnvelope{Verified: []verifiedItem{
		{Index: 0, Explanation: "e", Choices: []string{"sent", "send", "sending", "sends"}},
		{Index: 1, Explanation: "e", Choices: []string{"only", "three", "options"}},
	}}

	merged := mergeVerified(drafts, env)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(merged))
	}
	if merged[0].Choices[0] != "sent" {
		t.Errorf("expected replacement choices, got %v", merged[0].Choices)
	}
	if merged[1].Choices[0] != "arrived" {
		t.Errorf("expected original choices kept, got %v", merged[1].Choices)
	}
}

func TestMergeVerified_StructuralGateRejectsDuplicates(t *testing.T) {
	drafts := draftBatch(1)
	env := verifyEnvelope{Verified: []verifiedItem{
		{Index: 0, Explanation: "e", Choices: []string{"Arrive", " arrive ", "arriving", "arrives"}},
	}}

	merged := mergeVerified(drafts, env)
	if len(merged) != 0 {
		t.Fatalf("expected duplicate-choice item dropped, got %d", len(merged))
	}
}

func TestMergeVerified_IgnoresUnknownIndexes(t *testing.T) {
	drafts := draftBatch(1)
	env := verifyEnvelope{Verified: []verifiedItem{
		{Index: 0, Explanation: "e"},
		{Index: 7, Explanation: "phantom"},
	}}

	merged := mergeVerified(drafts, env)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged item, got %d", len(merged))
	}
}

func TestMergeVerified_EnrichesRetainedItems(t *testing.T) {
	drafts := draftBatch(1)
	env := verifyEnvelope{Verified: []verifiedItem{{
		Index:                0,
		Explanation:          `正解は \"arrived\" です`,
		FilledSentence:       "The shipment arrived on time.",
		FilledSentenceJa:     "荷物は時間通りに到着しました。",
		ChoiceTranslationsJa: []string{"到着した", "到着する", "到着している", "到着します"},
	}}}

	merged := mergeVerified(drafts, env)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged item, got %d", len(merged))
	}
	q := merged[0]
	if q.Explanation != "正解は 」arrived」 です" {
		t.Errorf("explanation not normalized: %q", q.Explanation)
	}
	if q.FilledSentence == "" || q.FilledSentenceJa == "" {
		t.Error("filled sentence fields not carried over")
	}
	if len(q.ChoiceTranslationsJa) != 4 {
		t.Errorf("expected 4 choice translations, got %d", len(q.ChoiceTranslationsJa))
	}
	if q.AnswerIndex != 0 {
		t.Errorf("answer index must stay 0, got %d", q.AnswerIndex)
	}
}
