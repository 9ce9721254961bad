package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Panel   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Subtle  lipgloss.Style
	KeyHint lipgloss.Style
	Good    lipgloss.Style
	Warn    lipgloss.Style
	Bad     lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		KeyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Good:    lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Bad:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
	}
}

// ProgressBar renders a fraction in [0, 1] as a bar of width cells.
func ProgressBar(s Styles, fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction > 0.5:
		return s.Bad.Render(bar)
	case fraction > 0.25:
		return s.Warn.Render(bar)
	}
	return s.Good.Render(bar)
}

// BoxWithTitle renders content in a panel headed by title.
func BoxWithTitle(s Styles, title, content string, width int) string {
	return s.Panel.Width(width).Render(s.Title.Render(title) + "\n" + content)
}

func Separator(s Styles, width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.Subtle.Render(left + " ◆ " + right)
}
