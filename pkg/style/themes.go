package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color adapts to light and dark terminals.
var (
	TextColor    = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#656D76", Dark: "#9198A1"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#3D444D"}
	ActiveColor  = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}

	// UpdateColor marks repositories whose remote moved ahead.
	UpdateColor = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#58A6FF"}

	// LinkedColor marks files linked into the target directory.
	LinkedColor = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
)
