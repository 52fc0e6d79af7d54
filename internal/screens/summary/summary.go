package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/toeic"
	"github.com/ktnk/toeiq/internal/ui/layout"
	"github.com/ktnk/toeiq/internal/ui/theme"
)

// SummaryScreen displays the result of a finished quiz batch.
type SummaryScreen struct {
	score toeic.Score
	level toeic.Level

	// popDepth is how many screens to pop to get back home: the summary
	// itself plus the quiz screen beneath it.
	popDepth int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(score toeic.Score, level toeic.Level, popDepth int) *SummaryScreen {
	if popDepth < 1 {
		popDepth = 1
	}
	return &SummaryScreen{score: score, level: level, popDepth: popDepth}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Result"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			cmds := make([]tea.Cmd, s.popDepth)
			for i := range cmds {
				cmds[i] = func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, tea.Sequence(cmds...)
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Quiz complete!"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("TOEIC %s", s.level)))
	b.WriteString("\n\n")

	var accuracy float64
	if s.score.Total > 0 {
		accuracy = float64(s.score.Correct) / float64(s.score.Total) * 100
	}
	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		s.score.Total, s.score.Correct, accuracy)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	grade := "もう一息!"
	switch {
	case s.score.Total == 0:
	case accuracy >= 90:
		grade = "素晴らしい!"
	case accuracy >= 70:
		grade = "よくできました!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Accent).
		Bold(true).
		Render(grade))

	return b.String()
}
