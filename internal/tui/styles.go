package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/danieljhkim/sweep/internal/project"
)

// Color palette
var (
	colorDirty    = lipgloss.Color("196") // bright red
	colorRecent   = lipgloss.Color("214") // orange
	colorClean    = lipgloss.Color("76")  // green
	colorSelected = lipgloss.Color("39")  // blue
	colorMuted    = lipgloss.Color("242") // gray
	colorWhite    = lipgloss.Color("15")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	cursorRowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(colorWhite).
			Bold(true)

	normalRowStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	checkStyle = lipgloss.NewStyle().
			Foreground(colorSelected).
			Bold(true)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(colorDirty).
			Bold(true)

	recentStyle = lipgloss.NewStyle().
			Foreground(colorRecent)

	cleanStyle = lipgloss.NewStyle().
			Foreground(colorClean)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	sizeStyle = lipgloss.NewStyle().
			Foreground(colorSelected)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDirty)

	successStyle = lipgloss.NewStyle().
			Foreground(colorClean).
			Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRecent).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)

// activityStyle returns the style for a STATUS value.
func activityStyle(a project.Activity) lipgloss.Style {
	switch a {
	case project.ActivityDirty:
		return dirtyStyle
	case project.ActivityRecent:
		return recentStyle
	case project.ActivityClean:
		return cleanStyle
	default:
		return mutedStyle
	}
}
