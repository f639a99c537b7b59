package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)
)

var (
	elapsedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	idleStyle    = lipgloss.NewStyle().Foreground(colorDim)
	labelStyle   = lipgloss.NewStyle().Foreground(colorDim)
	valueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	updateStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
)

// Event list styles, keyed by how the event ends a session.
var (
	eventTimeStyle = lipgloss.NewStyle().Foreground(colorDim)
	eventEndStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	eventStyle     = lipgloss.NewStyle().Foreground(colorCyan)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)
