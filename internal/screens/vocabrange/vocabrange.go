// Package vocabrange is the word-drill configuration screen: word list,
// 100-word window, progress filter, and the premium favorites-only cut.
package vocabrange

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/dataset"
	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/vocabsession"
	"github.com/ktnk/toeiq/internal/toeic"
	"github.com/ktnk/toeiq/internal/ui/layout"
	"github.com/ktnk/toeiq/internal/ui/theme"
	"github.com/ktnk/toeiq/internal/vocab"
)

const rangeChunk = 100

const (
	rowCategory = iota
	rowWindow
	rowBatch
	rowMode
	rowFavorites
	rowStart
	rowCount
)

// batchSizes are the selectable drill window sizes.
var batchSizes = []int{5, 10, 15, 20}

var modes = []vocab.FilterMode{vocab.FilterAll, vocab.FilterIncorrectOnly, vocab.FilterUnlearnedOnly}

// RangeScreen configures and launches a vocabulary drill.
type RangeScreen struct {
	tracker  *history.Tracker
	provider llm.Provider
	ent      billing.Entitlements

	categories []dataset.NgslCategory
	catIdx     int
	windows    []toeic.VocabRange
	winIdx     int
	batchIdx   int
	modeIdx    int
	favorites  bool
	cursor     int
	errMsg     string
}

var _ screen.Screen = (*RangeScreen)(nil)
var _ screen.KeyHintProvider = (*RangeScreen)(nil)

// New creates a new RangeScreen. provider may be nil; example sentences
// are skipped then.
func New(tracker *history.Tracker, provider llm.Provider, ent billing.Entitlements) *RangeScreen {
	s := &RangeScreen{
		tracker:    tracker,
		provider:   provider,
		ent:        ent,
		categories: dataset.Categories(),
		batchIdx:   1,
	}
	s.rebuildWindows()
	return s
}

func (s *RangeScreen) rebuildWindows() {
	words := dataset.Words(s.categories[s.catIdx])
	s.windows = toeic.SplitRange(toeic.VocabRange{Start: 1, End: len(words)}, rangeChunk)
	s.winIdx = 0
}

func (s *RangeScreen) Init() tea.Cmd {
	return nil
}

func (s *RangeScreen) Title() string {
	return "Vocabulary"
}

func (s *RangeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RangeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
		s.cycle(-1)
	case "right", "l":
		s.cycle(1)
	case "space", " ":
		if s.cursor == rowFavorites {
			s.toggleFavorites()
		}
	case "enter":
		if s.cursor == rowFavorites {
			s.toggleFavorites()
			return s, nil
		}
		if s.cursor == rowStart {
			return s.start()
		}
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	return s, nil
}

func (s *RangeScreen) cycle(dir int) {
	switch s.cursor {
	case rowCategory:
		next := s.catIdx + dir
		if next >= 0 && next < len(s.categories) {
			s.catIdx = next
			s.rebuildWindows()
		}
	case rowWindow:
		next := s.winIdx + dir
		if next >= 0 && next < len(s.windows) {
			s.winIdx = next
		}
	case rowBatch:
		next := s.batchIdx + dir
		if next >= 0 && next < len(batchSizes) {
			s.batchIdx = next
		}
	case rowMode:
		next := s.modeIdx + dir
		if next >= 0 && next < len(modes) {
			s.modeIdx = next
		}
	}
}

func (s *RangeScreen) toggleFavorites() {
	if !s.ent.FavoritesOnly() {
		s.errMsg = "お気に入りのみ出題はプレミアム機能です"
		return
	}
	s.favorites = !s.favorites
	s.errMsg = ""
}

func (s *RangeScreen) start() (screen.Screen, tea.Cmd) {
	words := dataset.Words(s.categories[s.catIdx])
	win := s.windows[s.winIdx]
	lo, hi := win.Start-1, min(win.End, len(words))
	if lo < 0 || lo >= hi {
		s.errMsg = "選択した範囲に単語がありません"
		return s, nil
	}

	queue := vocab.BuildQueue(context.Background(), words[lo:hi], vocab.QueueOptions{
		Mode:          modes[s.modeIdx],
		FavoritesOnly: s.favorites,
	}, s.tracker, s.ent)
	if len(queue) == 0 {
		s.errMsg = "条件に合う単語がありません"
		return s, nil
	}

	tracker := s.tracker
	provider := s.provider
	size := batchSizes[s.batchIdx]
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: vocabsession.New(queue, size, tracker, provider),
		}
	}
}

func (s *RangeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	win := s.windows[s.winIdx]
	fav := "[ ]"
	if s.favorites {
		fav = "[x]"
	}

	rows := []string{
		fmt.Sprintf("Word list       ◂ %s ▸", s.categories[s.catIdx]),
		fmt.Sprintf("Range           ◂ %d-%d ▸", win.Start, win.End),
		fmt.Sprintf("Batch           ◂ %d語 ▸", batchSizes[s.batchIdx]),
		fmt.Sprintf("Filter          ◂ %s ▸", modes[s.modeIdx].Title()),
		fmt.Sprintf("%s お気に入りのみ", fav),
		"START",
	}

	for i, row := range rows {
		prefix := "    "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == rowFavorites && !s.ent.FavoritesOnly() {
			style = style.Foreground(theme.TextDim)
		}
		if i == s.cursor {
			prefix = "  ▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+row)))
		b.WriteString("\n")
		if i == rowFavorites {
			b.WriteString("\n")
		}
	}

	// Progress summary for the selected window.
	words := dataset.Words(s.categories[s.catIdx])
	lo, hi := win.Start-1, min(win.End, len(words))
	if lo >= 0 && lo < hi {
		p := vocab.Summarize(context.Background(), words[lo:hi], s.tracker)
		summaryLine := fmt.Sprintf("正解 %d  不正解 %d  未学習 %d  (全%d語)",
			p.Correct, p.Incorrect, p.Unlearned, p.Total)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(summaryLine))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}
