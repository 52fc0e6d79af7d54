// Package vocabsession is the word-drill answering screen: four-choice
// meaning cards in batches of ten, with an example sentence streamed in
// for each word.
package vocabsession

import (
	"context"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/session"
	"github.com/ktnk/toeiq/internal/ui/components"
	"github.com/ktnk/toeiq/internal/ui/layout"
	"github.com/ktnk/toeiq/internal/vocab"
)

const defaultBatchSize = 10

// exampleUpdateMsg carries one streamed example-sentence snapshot. The
// generation number discards updates from a previous card's stream.
type exampleUpdateMsg struct {
	gen    int
	update vocab.ExampleUpdate
}

// exampleClosedMsg is sent when the example stream channel closes.
type exampleClosedMsg struct{}

// VocabScreen implements screen.Screen for an active drill batch.
type VocabScreen struct {
	sess     *session.VocabSession
	streamer *vocab.ExampleStreamer

	mc      components.MultiChoice
	example string

	cancelExample context.CancelFunc
	exampleCh     <-chan vocab.ExampleUpdate
	exampleGen    int
}

var _ screen.Screen = (*VocabScreen)(nil)
var _ screen.KeyHintProvider = (*VocabScreen)(nil)

// New creates a new VocabScreen over a filtered word queue. batchSize <= 0
// falls back to the default window of 10. provider may be nil; cards are
// shown without example sentences then.
func New(queue []dataset.NgslWord, batchSize int, tracker *history.Tracker, provider llm.Provider) *VocabScreen {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(len(queue))))
	var recorder session.AttemptRecorder
	if tracker != nil {
		recorder = tracker
	}
	s := &VocabScreen{
		sess: session.NewVocabSession(rng, queue, batchSize, recorder),
	}
	if provider != nil {
		s.streamer = vocab.NewExampleStreamer(provider)
	}
	return s
}

func (s *VocabScreen) Init() tea.Cmd {
	s.sess.Start()
	return s.onNewCard()
}

func (s *VocabScreen) Title() string {
	return "Word Drill"
}

func (s *VocabScreen) KeyHints() []layout.KeyHint {
	if s.sess.Finished() {
		hints := []layout.KeyHint{
			{Key: "R", Description: "Same range again"},
		}
		if s.sess.HasNextRange() {
			hints = append(hints, layout.KeyHint{Key: "N", Description: "Next range"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	if s.sess.Revealed() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *VocabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exampleUpdateMsg:
		if msg.gen != s.exampleGen {
			return s, nil
		}
		s.example = msg.update.Text
		if msg.update.Done {
			return s, nil
		}
		return s, waitForExample(s.exampleCh, s.exampleGen)
	case exampleClosedMsg:
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *VocabScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.sess.Finished() {
		switch key {
		case "r", "R":
			s.sess.RestartSameRange()
			return s, s.onNewCard()
		case "n", "N":
			if s.sess.HasNextRange() {
				s.sess.StartNextRange()
				return s, s.onNewCard()
			}
		case "esc", "enter":
			s.stopExample()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if key == "esc" {
		s.stopExample()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.sess.Revealed() {
		switch key {
		case "enter", "space", " ", "n":
			if s.sess.Next() {
				return s, s.onNewCard()
			}
			s.stopExample()
			return s, nil
		}
		return s, nil
	}

	s.mc, _ = s.mc.Update(msg)
	if s.mc.Submitted {
		s.sess.Submit(context.Background(), s.mc.ChosenIndex)
	}
	return s, nil
}

// onNewCard resets the choice component and kicks off the example stream
// for the freshly loaded card.
func (s *VocabScreen) onNewCard() tea.Cmd {
	s.stopExample()
	s.example = ""

	card := s.sess.Current()
	if card == nil {
		return nil
	}
	s.mc = components.NewMultiChoice(card.Choices, card.Answer)

	if s.streamer == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelExample = cancel
	s.exampleGen++
	s.exampleCh = s.streamer.Stream(ctx, card.Word)
	return waitForExample(s.exampleCh, s.exampleGen)
}

func (s *VocabScreen) stopExample() {
	if s.cancelExample != nil {
		s.cancelExample()
		s.cancelExample = nil
	}
	s.exampleCh = nil
}

func waitForExample(ch <-chan vocab.ExampleUpdate, gen int) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return exampleClosedMsg{}
		}
		return exampleUpdateMsg{gen: gen, update: u}
	}
}
