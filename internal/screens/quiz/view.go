package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ktnk/toeiq/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.run == nil {
		return renderLoading(width, s.source, s.spin.View())
	}
	if s.run.Revealed() {
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := s.run.Current()
	if q == nil {
		return ""
	}

	var b strings.Builder

	cur, total := s.run.Progress()
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s", q.Type.DisplayName()))

	sourceTag := ""
	if s.fromCache {
		sourceTag = "cached  "
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%sQ %d/%d", sourceTag, cur, total))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	promptStyle := lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, promptStyle.Render(q.Prompt)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Select (1-4) or use arrows + Enter"))

	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	q := s.run.Current()
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.mc.IsCorrect() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("正解!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("不正解"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("正解: %s", q.Choices[q.AnswerIndex])))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	b.WriteString("\n")

	blockWidth := min(width-8, 70)
	block := lipgloss.NewStyle().Width(blockWidth).Foreground(theme.Text)
	dim := lipgloss.NewStyle().Width(blockWidth).Foreground(theme.TextDim)

	if q.Explanation != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(q.Explanation)))
		b.WriteString("\n\n")
	}
	if q.FilledSentence != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block.Render(q.FilledSentence)))
		b.WriteString("\n")
	}
	if q.FilledSentenceJa != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(q.FilledSentenceJa)))
		b.WriteString("\n")
	}
	if len(q.ChoiceTranslationsJa) == len(q.Choices) {
		b.WriteString("\n")
		for i, tr := range q.ChoiceTranslationsJa {
			line := fmt.Sprintf("%s: %s", q.Choices[i], tr)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(line)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	favLine := "☆ favorite: off"
	favStyle := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	if s.favorite {
		favLine = "★ favorite: on"
		favStyle = favStyle.Foreground(theme.Accent)
	}
	b.WriteString(favStyle.Render(favLine))

	return b.String()
}

func renderLoading(width int, source Source, frame string) string {
	text := "\n\n\n  " + frame + "問題を生成しています..."
	if source == SourceLatest {
		text = "\n\n\n  " + frame + "最新の問題を取得しています..."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
