package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#1264A3", Dark: "#36C5F0"}
	muted  = lipgloss.AdaptiveColor{Light: "#616061", Dark: "#9A9A9A"}
	border = lipgloss.AdaptiveColor{Light: "#DCE0E5", Dark: "#2A3850"}
)

// Styles used by the roster view.
type Styles struct {
	Title    lipgloss.Style
	Filter   lipgloss.Style
	Skeleton lipgloss.Style
	Help     lipgloss.Style
	Dialog   lipgloss.Style
	DialogHi lipgloss.Style
}

// DefaultStyles returns the roster view styles.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Filter:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		Skeleton: lipgloss.NewStyle().Foreground(border),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center),
		DialogHi: lipgloss.NewStyle().Bold(true),
	}
}
