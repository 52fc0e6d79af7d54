package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/ktnk/toeiq/internal/ui/layout"
)

// Screen is one view in the study app: the home menu, a quiz setup form,
// an active run, and so on. The router owns a stack of these.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body; the frame adds header and footer.
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
