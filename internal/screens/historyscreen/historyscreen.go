// Package historyscreen lists per-question study records: attempt
// counts, accuracy, and favorite flags.
package historyscreen

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/ui/layout"
	"github.com/ktnk/toeiq/internal/ui/theme"
)

type historyLoadedMsg struct {
	Summaries []history.Summary
	Err       error
}

// HistoryScreen displays the answer history, most recently studied first.
type HistoryScreen struct {
	store     *history.Store
	summaries []history.Summary
	selected  int
	offset    int
	loaded    bool
	favOnly   bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(store *history.Store) *HistoryScreen {
	return &HistoryScreen{store: store}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		summaries, err := s.store.Summaries(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Summaries: summaries}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "F", Description: "Favorites only"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) visible() []history.Summary {
	if !s.favOnly {
		return s.summaries
	}
	var out []history.Summary
	for _, sum := range s.summaries {
		if sum.Favorite {
			out = append(out, sum)
		}
	}
	return out
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.summaries = msg.Summaries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "f", "F":
			s.favOnly = !s.favOnly
			s.selected = 0
			s.offset = 0
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	visible := s.visible()
	if len(visible) == 0 {
		text := "\n\n  まだ学習履歴がありません"
		if s.favOnly {
			text = "\n\n  お気に入りはまだありません"
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(text)
	}

	// Keep the selection inside the visible page.
	rows := max(height-2, 1)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}

	var b strings.Builder
	b.WriteString("\n")

	end := min(s.offset+rows, len(visible))
	for i := s.offset; i < end; i++ {
		sum := visible[i]

		var accuracy float64
		if sum.TotalCount > 0 {
			accuracy = float64(sum.TotalCorrect) / float64(sum.TotalCount) * 100
		}

		fav := "  "
		if sum.Favorite {
			fav = "★ "
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s%s  %d回  %d正解  %.0f%%  %s",
			prefix, fav, sum.QuestionID.String()[:8],
			sum.TotalCount, sum.TotalCorrect, accuracy,
			sum.UpdatedAt.Format("Jan 02 15:04"))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
