package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/toeic"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Total = 2
	return cfg
}

const draftJSON = `{"questions":[
	{"type":"grammar","prompt":"The invoice (____) yesterday.","choices":["was sent","sent","sending","sends"]},
	{"type":"vocabulary","prompt":"We must (____) the new policy.","choices":["implement","improve","imply","import"]}
]}`

const verifyJSON = `{"verified":[
	{"index":0,"explanation":"受動態の過去形が正しいです"},
	{"index":1,"explanation":"「implement」は施行するという意味です"}
]}`

type recordingSaver struct {
	saved []toeic.Question
	level toeic.Level
	err   error
}

func (r *recordingSaver) Save(_ context.Context, items []toeic.Question, level toeic.Level) error {
	r.saved = items
	r.level = level
	return r.err
}

func TestService_GenerateHappyPath(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(draftJSON)},
		llm.MockResponse{Content: json.RawMessage(verifyJSON)},
	)
	saver := &recordingSaver{}
	svc := New(mock, saver, testConfig(), testLogger())

	items, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeGrammar, toeic.TypeVocabulary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(items))
	}
	if items[0].Explanation == "" {
		t.Error("expected enriched explanation on verified item")
	}
	if items[0].AnswerIndex != 0 || items[1].AnswerIndex != 0 {
		t.Error("answer index must be 0 after verification")
	}
	if len(saver.saved) != 2 || saver.level != toeic.Level600 {
		t.Errorf("expected batch saved at level 600, got %d items at %q", len(saver.saved), saver.level)
	}
}

func TestService_VerificationFailureFallsBackToDrafts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(draftJSON)},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := New(mock, nil, testConfig(), testLogger())

	items, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeGrammar})
	if err != nil {
		t.Fatalf("expected fallback to drafts, got error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 draft questions, got %d", len(items))
	}
	if items[0].Explanation != "" {
		t.Error("draft fallback must not carry explanations")
	}
}

func TestService_RetriesExactlyTwiceThenFails(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := New(mock, nil, testConfig(), testLogger())

	_, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeGrammar})
	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected exactly 2 generation calls, got %d", mock.CallCount())
	}
}

func TestService_SecondAttemptSucceeds(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(draftJSON)},
		llm.MockResponse{Content: json.RawMessage(verifyJSON)},
	)
	svc := New(mock, nil, testConfig(), testLogger())

	items, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeGrammar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(items))
	}
}

func TestService_NoTypesIsAnError(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := New(mock, nil, testConfig(), testLogger())

	_, err := svc.Generate(context.Background(), toeic.Level600, nil)
	if !errors.Is(err, ErrNoTypes) {
		t.Fatalf("expected ErrNoTypes, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestService_SaveFailureDoesNotSurface(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(draftJSON)},
		llm.MockResponse{Content: json.RawMessage(verifyJSON)},
	)
	saver := &recordingSaver{err: errors.New("store offline")}
	svc := New(mock, saver, testConfig(), testLogger())

	items, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeGrammar})
	if err != nil {
		t.Fatalf("save failure must not surface, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(items))
	}
}

func TestService_PromptCarriesPlanAndRubric(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(draftJSON)},
		llm.MockResponse{Content: json.RawMessage(verifyJSON)},
	)
	svc := New(mock, nil, testConfig(), testLogger())

	_, err := svc.Generate(context.Background(), toeic.Level990, []toeic.QuestionType{toeic.TypeGrammar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen := mock.Calls[0]
	if gen.System != generationSystem {
		t.Errorf("unexpected system prompt: %q", gen.System)
	}
	user := gen.Messages[0].Content
	for _, want := range []string{"CEFR C2", "grammarSubcategory", "strict JSON only"} {
		if !strings.Contains(user, want) {
			t.Errorf("generation prompt missing %q", want)
		}
	}
	if gen.Temperature != 0.2 || gen.TopP != 0.8 {
		t.Errorf("unexpected sampling: temp=%v topP=%v", gen.Temperature, gen.TopP)
	}

	ver := mock.Calls[1]
	if !strings.Contains(ver.Messages[0].Content, "REVIEW AND REPAIR") {
		t.Error("verification prompt missing review instructions")
	}
}

func TestService_VocabularyBatchEndToEnd(t *testing.T) {
	cfg := DefaultConfig()

	// Mirror the service's plan construction with an identically seeded rng
	// so the stubbed remote response can echo each plan's headword.
	plans := BuildPlans(rand.New(rand.NewPCG(3, 9)), toeic.Level600, []toeic.QuestionType{toeic.TypeVocabulary}, cfg.Total)
	if len(plans) != cfg.Total {
		t.Fatalf("expected %d plans, got %d", cfg.Total, len(plans))
	}

	type draft struct {
		Type    string   `json:"type"`
		Prompt  string   `json:"prompt"`
		Choices []string `json:"choices"`
	}
	type verifiedItem struct {
		Index       int    `json:"index"`
		Explanation string `json:"explanation"`
	}
	drafts := make([]draft, 0, len(plans))
	verified := make([]verifiedItem, 0, len(plans))
	for i, p := range plans {
		if p.Type != toeic.TypeVocabulary {
			t.Fatalf("plan %d type = %q, want vocabulary", i, p.Type)
		}
		if p.Vocab == nil || p.Vocab.Headword == "" {
			t.Fatalf("plan %d has no headword", i)
		}
		drafts = append(drafts, draft{
			Type:   "vocabulary",
			Prompt: fmt.Sprintf("The manager asked us to (____) the report. #%d", i),
			Choices: []string{
				p.Vocab.Headword,
				fmt.Sprintf("option%d-b", i),
				fmt.Sprintf("option%d-c", i),
				fmt.Sprintf("option%d-d", i),
			},
		})
		verified = append(verified, verifiedItem{Index: i, Explanation: "正解の語が文意に合います"})
	}
	genBody, err := json.Marshal(map[string]any{"questions": drafts})
	if err != nil {
		t.Fatal(err)
	}
	verBody, err := json.Marshal(map[string]any{"verified": verified})
	if err != nil {
		t.Fatal(err)
	}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: genBody},
		llm.MockResponse{Content: verBody},
	)
	svc := New(mock, nil, cfg, testLogger())
	svc.rng = rand.New(rand.NewPCG(3, 9))

	items, err := svc.Generate(context.Background(), toeic.Level600, []toeic.QuestionType{toeic.TypeVocabulary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != cfg.Total {
		t.Fatalf("expected %d questions, got %d", cfg.Total, len(items))
	}
	for i, q := range items {
		if q.Type != toeic.TypeVocabulary {
			t.Errorf("question %d type = %q", i, q.Type)
		}
		if q.AnswerIndex != 0 {
			t.Errorf("question %d answer index = %d, want 0", i, q.AnswerIndex)
		}
		if q.Choices[0] != plans[i].Vocab.Headword {
			t.Errorf("question %d choices[0] = %q, want headword %q", i, q.Choices[0], plans[i].Vocab.Headword)
		}
	}
}
