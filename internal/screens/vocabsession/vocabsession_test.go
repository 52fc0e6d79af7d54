package vocabsession

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/vocab"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQueue(n int) []dataset.NgslWord {
	words := make([]dataset.NgslWord, n)
	for i := range words {
		words[i] = dataset.NgslWord{
			Word:    fmt.Sprintf("word%02d", i),
			Meaning: fmt.Sprintf("意味%02d", i),
			POS:     "名詞",
		}
	}
	return words
}

func testVocabScreen(n int) *VocabScreen {
	s := New(testQueue(n), 0, nil, nil)
	s.Init()
	return s
}

func TestVocabScreen_Title(t *testing.T) {
	s := testVocabScreen(3)
	if s.Title() != "Word Drill" {
		t.Errorf("Title = %q, want %q", s.Title(), "Word Drill")
	}
}

func TestVocabScreen_ShowsFirstCard(t *testing.T) {
	s := testVocabScreen(3)

	card := s.sess.Current()
	if card == nil {
		t.Fatal("no card after init")
	}
	view := s.View(80, 24)
	if !strings.Contains(view, card.Word.Word) {
		t.Error("view does not show the word under test")
	}
}

func TestVocabScreen_AnswerReveals(t *testing.T) {
	s := testVocabScreen(3)

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('1'))
	vs := scr.(*VocabScreen)

	if !vs.sess.Revealed() {
		t.Error("expected reveal after answering")
	}
}

func TestVocabScreen_FinishesBatch(t *testing.T) {
	s := testVocabScreen(2)

	var scr screen.Screen = s
	for i := 0; i < 2; i++ {
		scr, _ = scr.Update(keyPress('1'))
		scr, _ = scr.Update(specialKey(tea.KeyEnter))
	}
	vs := scr.(*VocabScreen)

	if !vs.sess.Finished() {
		t.Fatal("batch not finished after answering every card")
	}
	view := vs.View(80, 24)
	if !strings.Contains(view, "Batch complete!") {
		t.Error("score view missing completion banner")
	}
}

func TestVocabScreen_RestartSameRange(t *testing.T) {
	s := testVocabScreen(2)

	var scr screen.Screen = s
	for i := 0; i < 2; i++ {
		scr, _ = scr.Update(keyPress('1'))
		scr, _ = scr.Update(specialKey(tea.KeyEnter))
	}
	scr, _ = scr.Update(keyPress('r'))
	vs := scr.(*VocabScreen)

	if vs.sess.Finished() {
		t.Error("expected a fresh batch after restart")
	}
	if vs.sess.Current() == nil {
		t.Error("no card after restart")
	}
}

func TestVocabScreen_NextRange(t *testing.T) {
	s := testVocabScreen(defaultBatchSize + 3)

	var scr screen.Screen = s
	for i := 0; i < defaultBatchSize; i++ {
		scr, _ = scr.Update(keyPress('1'))
		scr, _ = scr.Update(specialKey(tea.KeyEnter))
	}
	vs := scr.(*VocabScreen)
	if !vs.sess.Finished() {
		t.Fatal("first window not finished")
	}
	if !vs.sess.HasNextRange() {
		t.Fatal("expected a next range")
	}

	scr, _ = vs.Update(keyPress('n'))
	vs = scr.(*VocabScreen)
	if vs.sess.Finished() {
		t.Error("expected an active batch after moving to the next range")
	}
	if got := vs.sess.Score().Total; got != 3 {
		t.Errorf("second window total = %d, want 3", got)
	}
}

func TestVocabScreen_ExampleUpdateShown(t *testing.T) {
	s := testVocabScreen(1)
	s.exampleGen = 1

	var scr screen.Screen = s
	scr, _ = scr.Update(exampleUpdateMsg{gen: 1, update: vocab.ExampleUpdate{Text: "He signed the contract."}})
	vs := scr.(*VocabScreen)

	if !strings.Contains(vs.View(80, 24), "He signed the contract.") {
		t.Error("streamed example not rendered")
	}
}

func TestVocabScreen_StaleExampleIgnored(t *testing.T) {
	s := testVocabScreen(1)
	s.exampleGen = 2

	var scr screen.Screen = s
	scr, _ = scr.Update(exampleUpdateMsg{gen: 1, update: vocab.ExampleUpdate{Text: "old text"}})
	vs := scr.(*VocabScreen)

	if strings.Contains(vs.View(80, 24), "old text") {
		t.Error("stale example from a previous card was rendered")
	}
}
