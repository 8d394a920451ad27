// Package style holds the lipgloss styles shared by the terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Table styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(BorderColor)
)

// Status styles
var (
	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ActiveColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	PathStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// Profile styles
var (
	ActiveStyle = lipgloss.NewStyle().
			Foreground(ActiveColor).
			Bold(true)

	UpdateStyle = lipgloss.NewStyle().
			Foreground(UpdateColor)

	LinkedStyle = lipgloss.NewStyle().
			Foreground(LinkedColor)
)

// Markers
const (
	ActiveMarker = "✓"
	FailMarker   = "!"
)
