// Package setup is the quiz configuration screen: score band, question
// categories, and whether to generate a fresh batch or pull the newest
// cached one.
package setup

import (
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/quiz"
	"github.com/ktnk/toeiq/internal/toeic"
	"github.com/ktnk/toeiq/internal/ui/layout"
	"github.com/ktnk/toeiq/internal/ui/theme"
)

const (
	rowLevel = iota
	rowGrammar
	rowPartOfSpeech
	rowVocabulary
	rowGenerate
	rowLatest
	rowCount
)

// SetupScreen configures and launches a Part 5 quiz.
type SetupScreen struct {
	questions *questiongen.Service
	cache     questionstore.Store
	tracker   *history.Tracker
	log       *slog.Logger

	levelIdx int
	enabled  map[toeic.QuestionType]bool
	cursor   int
	errMsg   string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a new SetupScreen. All categories start enabled and the
// band defaults to the middle of the range. log may be nil.
func New(questions *questiongen.Service, cache questionstore.Store, tracker *history.Tracker, log *slog.Logger) *SetupScreen {
	enabled := make(map[toeic.QuestionType]bool, len(toeic.AllTypes))
	for _, t := range toeic.AllTypes {
		enabled[t] = true
	}
	return &SetupScreen{
		questions: questions,
		cache:     cache,
		tracker:   tracker,
		log:       log,
		levelIdx:  2, // 401-600
		enabled:   enabled,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Part 5 Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Change level"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Level returns the currently selected score band.
func (s *SetupScreen) Level() toeic.Level {
	return toeic.AllLevels[s.levelIdx]
}

// Types returns the enabled categories in canonical order.
func (s *SetupScreen) Types() []toeic.QuestionType {
	var out []toeic.QuestionType
	for _, t := range toeic.AllTypes {
		if s.enabled[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < rowCount-1 {
			s.cursor++
		}
	case "left", "h":
		if s.cursor == rowLevel && s.levelIdx > 0 {
			s.levelIdx--
		}
	case "right", "l":
		if s.cursor == rowLevel && s.levelIdx < len(toeic.AllLevels)-1 {
			s.levelIdx++
		}
	case "space", " ":
		if t, ok := rowType(s.cursor); ok {
			s.enabled[t] = !s.enabled[t]
			s.errMsg = ""
		}
	case "enter":
		return s.handleEnter()
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	return s, nil
}

func (s *SetupScreen) handleEnter() (screen.Screen, tea.Cmd) {
	if t, ok := rowType(s.cursor); ok {
		s.enabled[t] = !s.enabled[t]
		s.errMsg = ""
		return s, nil
	}

	var source quiz.Source
	switch s.cursor {
	case rowGenerate:
		source = quiz.SourceGenerate
	case rowLatest:
		source = quiz.SourceLatest
	default:
		return s, nil
	}

	types := s.Types()
	if len(types) == 0 {
		s.errMsg = "出題カテゴリを1つ以上選択してください"
		return s, nil
	}
	if source == quiz.SourceGenerate && s.questions == nil {
		s.errMsg = "LLM provider not configured"
		return s, nil
	}

	level := s.Level()
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: quiz.New(s.questions, s.cache, s.tracker, s.log, level, types, source),
		}
	}
}

func rowType(cursor int) (toeic.QuestionType, bool) {
	switch cursor {
	case rowGrammar:
		return toeic.TypeGrammar, true
	case rowPartOfSpeech:
		return toeic.TypePartOfSpeech, true
	case rowVocabulary:
		return toeic.TypeVocabulary, true
	}
	return "", false
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	rows := []string{
		fmt.Sprintf("Target score    ◂ %s ▸", s.Level()),
		s.typeRow(toeic.TypeGrammar),
		s.typeRow(toeic.TypePartOfSpeech),
		s.typeRow(toeic.TypeVocabulary),
		"START — generate new questions",
		"LATEST — newest cached questions",
	}

	for i, row := range rows {
		prefix := "    "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.cursor {
			prefix = "  ▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+row)))
		b.WriteString("\n")
		if i == rowVocabulary {
			b.WriteString("\n")
		}
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

func (s *SetupScreen) typeRow(t toeic.QuestionType) string {
	mark := "[ ]"
	if s.enabled[t] {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s (%s)", mark, t.DisplayName(), t)
}
