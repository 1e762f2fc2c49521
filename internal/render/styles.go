// Package render formats period reports for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorHighlight = lipgloss.Color("#FF5252") // Red: Afeta, active cycle and planets
	colorDuration  = lipgloss.Color("#00E676") // Green: durations and cumulatives
	colorMuted     = lipgloss.Color("#8C8C8C")
	colorBorder    = lipgloss.Color("#5B8DEF")
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	styleHighlight = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	styleDuration = lipgloss.NewStyle().
			Foreground(colorDuration)

	styleLabel = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleColumn = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1)
)
