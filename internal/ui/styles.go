package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/coastal-activities/internal/recommend"
)

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#00BFFF") // Deep sky blue
	colorSecondary = lipgloss.Color("#87CEEB") // Sky blue
	colorDanger    = lipgloss.Color("#FF6B6B") // Red for errors
	colorWarning   = lipgloss.Color("#FFD93D") // Yellow
	colorSuccess   = lipgloss.Color("#6BCF7F") // Green
	colorMuted     = lipgloss.Color("#6C757D") // Gray

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	// Tier styles
	tierPerfectStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	tierGreatStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	tierGoodStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	tierAcceptableStyle = lipgloss.NewStyle().
				Foreground(colorWarning)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Section header styles
	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1).
				MarginTop(1)

	searchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Width(64)
)

// tierStyle returns the style for a tier heading
func tierStyle(t recommend.Tier) lipgloss.Style {
	switch t {
	case recommend.TierPerfect:
		return tierPerfectStyle
	case recommend.TierGreat:
		return tierGreatStyle
	case recommend.TierGood:
		return tierGoodStyle
	}
	return tierAcceptableStyle
}
