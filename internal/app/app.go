// Package app wires the dependency graph into the root Bubble Tea model.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/billing"
	"github.com/ktnk/toeiq/internal/history"
	"github.com/ktnk/toeiq/internal/llm"
	"github.com/ktnk/toeiq/internal/questiongen"
	"github.com/ktnk/toeiq/internal/questionstore"
	"github.com/ktnk/toeiq/internal/router"
	"github.com/ktnk/toeiq/internal/screen"
	"github.com/ktnk/toeiq/internal/screens/home"
	"github.com/ktnk/toeiq/internal/ui/layout"
)

// Options carries the application dependencies. Questions and Provider
// may be nil when no LLM provider is configured; the app then serves
// cached questions and word drills without example sentences.
type Options struct {
	Questions    *questiongen.Service
	Cache        questionstore.Store
	History      *history.Store
	Tracker      *history.Tracker
	Provider     llm.Provider
	Entitlements billing.Entitlements
	Logger       *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	premium bool
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Questions, opts.Cache, opts.History, opts.Tracker, opts.Provider, opts.Entitlements, opts.Logger)
	return AppModel{
		router:  router.New(homeScreen),
		premium: opts.Entitlements.FavoritesOnly(),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, "", m.premium, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
