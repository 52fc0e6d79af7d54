package vocabsession

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/ui/components"
	"github.com/ktnk/toeiq/internal/ui/theme"
)

func (s *VocabScreen) View(width, height int) string {
	if s.sess.Finished() {
		return s.renderScore(width)
	}
	return s.renderCard(width)
}

func (s *VocabScreen) renderCard(width int) string {
	card := s.sess.Current()
	if card == nil {
		return ""
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s", card.Word.POS))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(s.sess.Progress())

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(card.Word.Word))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	b.WriteString("\n")

	if s.example != "" {
		exStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.TextDim).
			Italic(true)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exStyle.Render(s.example)))
		b.WriteString("\n")
	}

	if !s.sess.Revealed() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\nSelect (1-4) or use arrows + Enter"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\nPress Enter for the next word"))
	}

	return b.String()
}

func (s *VocabScreen) renderScore(width int) string {
	score := s.sess.Score()

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Batch complete!"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Score: %d/%d", score.Correct, score.Total)))
	b.WriteString("\n\n")

	var pct float64
	if score.Total > 0 {
		pct = float64(score.Correct) / float64(score.Total)
	}
	bar := components.NewProgressBar("", pct, true, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[R] もう一度同じ範囲"))
	b.WriteString("\n")
	if s.sess.HasNextRange() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Primary).
			Render("[N] 次の範囲へ"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("[Esc] 終了"))

	return b.String()
}
