// Package quiz is the Part 5 answering screen: it loads a batch of
// questions, steps through them one at a time, and shows the verified
// explanation after each answer.
package quiz

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/summary"
	"github.com/ktnk/toeiq/internal/session"
	"github.com/ktnk/toeiq/internal/toeic"
	"github.com/ktnk/toeiq/internal/ui/components"
	"github.com/ktnk/toeiq/internal/ui/layout"
)

// Source selects where the question batch comes from.
type Source int

const (
	// SourceGenerate asks the LLM pipeline for a fresh batch.
	SourceGenerate Source = iota
	// SourceLatest reads the newest unseen batch from the shared cache,
	// falling back to generation when the cache is empty.
	SourceLatest
)

// QuizScreen implements screen.Screen for an active Part 5 run.
type QuizScreen struct {
	questions *questiongen.Service
	cache     questionstore.Store
	tracker   *history.Tracker
	log       *slog.Logger

	level  toeic.Level
	types  []toeic.QuestionType
	source Source

	run       *session.QuizRun
	mc        components.MultiChoice
	spin      components.Spinner
	favorite  bool
	fromCache bool
	errMsg    string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a new QuizScreen with injected dependencies. questions may
// be nil when no LLM provider is configured; SourceLatest still works
// against the cache then. log may be nil.
func New(questions *questiongen.Service, cache questionstore.Store, tracker *history.Tracker, log *slog.Logger, level toeic.Level, types []toeic.QuestionType, source Source) *QuizScreen {
	return &QuizScreen{
		questions: questions,
		cache:     cache,
		tracker:   tracker,
		log:       log,
		level:     level,
		types:     types,
		source:    source,
		spin:      components.NewSpinner(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.spin.Init(), s.loadQuestions())
}

func (s *QuizScreen) Title() string {
	return "Part 5"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.run == nil || s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.run.Revealed() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "F", Description: "Favorite"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestionsReady(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if s.run == nil && s.errMsg == "" {
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	}
	return s, nil
}

// loadQuestions fetches the batch asynchronously.
func (s *QuizScreen) loadQuestions() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if s.source == SourceLatest {
			batch, err := questionstore.CheckLatest(ctx, s.cache, s.level, s.types, questiongen.DefaultConfig().Total)
			if err == nil && len(batch) > 0 {
				return questionsReadyMsg{Questions: batch, FromCache: true}
			}
			// Empty or unreachable cache: generate when we can.
			if s.questions == nil {
				if err == nil {
					err = errors.New("キャッシュに問題がありません")
				}
				return questionsReadyMsg{Err: err}
			}
		}

		if s.questions == nil {
			return questionsReadyMsg{Err: errors.New("LLM provider not configured")}
		}
		batch, err := s.questions.Generate(ctx, s.level, s.types)
		if err != nil {
			return questionsReadyMsg{Err: err}
		}
		return questionsReadyMsg{Questions: batch}
	}
}

func (s *QuizScreen) handleQuestionsReady(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if len(msg.Questions) == 0 {
		s.errMsg = "出題できる問題がありません"
		return s, nil
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(len(msg.Questions))))
	var recorder session.AttemptRecorder
	if s.tracker != nil {
		recorder = s.tracker
	}
	s.run = session.NewQuizRun(rng, s.level, msg.Questions, recorder, s.cache, s.log)
	s.fromCache = msg.FromCache
	s.resetChoice()
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if key == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.run == nil {
		return s, nil
	}

	if s.run.Revealed() {
		switch key {
		case "f", "F":
			return s.toggleFavorite()
		case "enter", "space", " ", "n":
			return s.advance()
		}
		return s, nil
	}

	// Selection phase: the component handles arrows, digits, and enter.
	s.mc, _ = s.mc.Update(msg)
	if s.mc.Submitted {
		ctx := context.Background()
		s.run.Submit(ctx, s.mc.ChosenIndex)
		if q := s.run.Current(); q != nil && s.tracker != nil {
			s.favorite = s.tracker.IsFavorite(ctx, q.ID)
		}
	}
	return s, nil
}

func (s *QuizScreen) toggleFavorite() (screen.Screen, tea.Cmd) {
	q := s.run.Current()
	if q == nil || s.tracker == nil {
		return s, nil
	}
	s.favorite = !s.favorite
	s.tracker.SetFavorite(context.Background(), q.ID, s.favorite)
	return s, nil
}

func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	if s.run.Next(context.Background()) {
		s.resetChoice()
		return s, nil
	}
	score := s.run.Score()
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: summary.New(score, s.level, 2),
		}
	}
}

func (s *QuizScreen) resetChoice() {
	s.favorite = false
	s.mc = components.NewMultiChoice(s.run.DisplayChoices(), s.run.CorrectDisplayPos())
}
