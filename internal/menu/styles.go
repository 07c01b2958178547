package menu

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")
	danger  = lipgloss.Color("#EF4444")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1)

	itemKeyStyle = lipgloss.NewStyle().Foreground(primary).Bold(true)
	itemStyle    = lipgloss.NewStyle()
	rootStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)

	statusOKStyle  = lipgloss.NewStyle().Foreground(success)
	statusErrStyle = lipgloss.NewStyle().Foreground(danger)
	busyStyle      = lipgloss.NewStyle().Foreground(muted)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(primary)
	helpDescStyle = lipgloss.NewStyle().Foreground(muted)
)
