package main

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	dangerColor = lipgloss.Color("196")
	mutedColor  = lipgloss.Color("240")

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(accentColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			MarginLeft(2).
			MarginTop(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			MarginLeft(2).
			MarginTop(1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 3)

	detailPaneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, false, false, true)
)

func renderAppHeader(profile string) string {
	title := "batchdeck - Batch & File Manager"
	if profile != "" {
		title += "  [" + profile + "]"
	}
	return headerBarStyle.Render(title)
}
