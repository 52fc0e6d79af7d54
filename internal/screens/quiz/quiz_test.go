package quiz

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/google/uuid"

	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/summary"
	"github.com/ktnk/toeiq/internal/toeic"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBatch(n int) []toeic.Question {
	qs := make([]toeic.Question, n)
	for i := range qs {
		qs[i] = toeic.Question{
			ID:          uuid.New(),
			Type:        toeic.TypeGrammar,
			Prompt:      "The shipment ___ on time.",
			Choices:     []string{"arrived", "arriving", "arrive", "to arrive"},
			AnswerIndex: 0,
			Explanation: "過去の出来事なので過去形が正解です。",
		}
	}
	return qs
}

func testQuizScreen(questions []toeic.Question) *QuizScreen {
	s := New(nil, questionstore.NewMemoryStore(), nil, nil, toeic.Level600, toeic.AllTypes, SourceLatest)
	s.Update(questionsReadyMsg{Questions: questions, FromCache: true})
	return s
}

func TestQuizScreen_Title(t *testing.T) {
	s := New(nil, questionstore.NewMemoryStore(), nil, nil, toeic.Level600, toeic.AllTypes, SourceLatest)
	if s.Title() != "Part 5" {
		t.Errorf("Title = %q, want %q", s.Title(), "Part 5")
	}
}

func TestQuizScreen_View_Loading(t *testing.T) {
	s := New(nil, questionstore.NewMemoryStore(), nil, nil, toeic.Level600, toeic.AllTypes, SourceLatest)
	if s.View(80, 24) == "" {
		t.Error("expected non-empty view for loading state")
	}
}

func TestQuizScreen_LoadError(t *testing.T) {
	s := New(nil, questionstore.NewMemoryStore(), nil, nil, toeic.Level600, toeic.AllTypes, SourceLatest)
	s.Update(questionsReadyMsg{Err: errTest})

	if s.errMsg == "" {
		t.Error("expected error message after failed load")
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty error view")
	}
}

func TestQuizScreen_EmptyBatchIsError(t *testing.T) {
	s := testQuizScreen(nil)
	if s.errMsg == "" {
		t.Error("expected error message for empty batch")
	}
}

func TestQuizScreen_AnswerReveals(t *testing.T) {
	s := testQuizScreen(testBatch(2))
	if s.run == nil {
		t.Fatal("run not started after questions loaded")
	}

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('1'))
	qs := scr.(*QuizScreen)

	if !qs.run.Revealed() {
		t.Error("expected reveal after answering")
	}
	view := qs.View(80, 24)
	if view == "" {
		t.Error("expected non-empty feedback view")
	}
}

func TestQuizScreen_LastQuestionPushesSummary(t *testing.T) {
	s := testQuizScreen(testBatch(1))

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('1'))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))

	if cmd == nil {
		t.Fatal("expected a command after the last question")
	}
	msg := cmd()
	push, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := push.Screen.(*summary.SummaryScreen); !ok {
		t.Fatalf("expected summary screen, got %T", push.Screen)
	}
}

func TestQuizScreen_AdvancesBetweenQuestions(t *testing.T) {
	s := testQuizScreen(testBatch(3))

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('1'))
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	qs := scr.(*QuizScreen)

	if qs.run.Revealed() {
		t.Error("expected fresh question after advancing")
	}
	cur, total := qs.run.Progress()
	if cur != 2 || total != 3 {
		t.Errorf("progress = %d/%d, want 2/3", cur, total)
	}
}

func TestQuizScreen_KeyHints(t *testing.T) {
	s := testQuizScreen(testBatch(1))
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

var errTest = errors.New("test error")
