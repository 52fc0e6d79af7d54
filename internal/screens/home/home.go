// Package home is the main menu screen.
package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/historyscreen"
	"github.com/ktnk/toeiq/internal/screens/setup"
	"github.com/ktnk/toeiq/internal/screens/vocabrange"
	"github.com/ktnk/toeiq/internal/ui/components"
	"github.com/ktnk/toeiq/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu      components.Menu
	studied   int
	favorites int
	hasLLM    bool
	premium   bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(questions *questiongen.Service, cache questionstore.Store, hist *history.Store, tracker *history.Tracker, provider llm.Provider, ent billing.Entitlements, log *slog.Logger) *HomeScreen {
	var studied, favorites int
	if hist != nil {
		if summaries, err := hist.Summaries(context.Background()); err == nil {
			for _, sum := range summaries {
				if sum.TotalCount > 0 {
					studied++
				}
				if sum.Favorite {
					favorites++
				}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "PART 5 QUIZ", Hint: "文法・語彙問題", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: setup.New(questions, cache, tracker, log),
				}
			}
		}},
		{Label: "WORD DRILL", Hint: "NGSL単語ドリル", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: vocabrange.New(tracker, provider, ent),
				}
			}
		}},
		{Label: "HISTORY", Hint: "学習履歴", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: historyscreen.New(hist)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:      components.NewMenu(items),
		studied:   studied,
		favorites: favorites,
		hasLLM:    questions != nil,
		premium:   ent.FavoritesOnly(),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("TOEIQ"))
	sections = append(sections, theme.Subtitle.Width(width).Render("TOEIC® Part 5 practice and word drills"))

	statsLine := fmt.Sprintf("学習済み %d問    お気に入り %d", h.studied, h.favorites)
	if h.premium {
		statsLine += "    ★ premium"
	}
	sections = append(sections, lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(statsLine))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	if !h.hasLLM {
		sections = append(sections, lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("LLM provider not configured — only cached questions are available"))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
