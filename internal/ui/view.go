package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateProvisioning:
		return m.viewProvisioning()
	case StateSearch:
		return m.viewSearch()
	case StateStationList:
		return m.viewStationList()
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewProvisioning renders the initial setup screen
func (m Model) viewProvisioning() string {
	title := titleStyle.Render("🌊 Coastal Activities Setup")
	info := helpStyle.Render("One-time setup: downloading the NOAA tide station list...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", m.spinner.View(), mutedStyle.Render(m.provisionStatus)),
		"",
		info,
	)
}

// viewError renders the error view
func (m Model) viewError() string {
	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("✗ Error"),
		"",
		errorMsg,
		"",
		helpStyle.Render("Press any key to return to search • Q: Quit"),
	)
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	sections := []string{
		titleStyle.Render("🌊 Coastal Activities"),
		mutedStyle.Render("What to do on the coast today, given the weather and the tide"),
		"",
		searchBoxStyle.Render(m.searchInput.View()),
		"",
		mutedStyle.Render("Examples: 95060 | Capitola, CA | Monterey, CA | 36.97,-122.03"),
		"",
		helpStyle.Render("Press Enter to search • Ctrl+C to quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewStationList renders the tide station picker
func (m Model) viewStationList() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🌊 Tide Stations"),
		mutedStyle.Render(fmt.Sprintf("Stations near %s", m.searchQuery)),
		"",
		m.stationList.View(),
		"",
		helpStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Back • Q: Quit"),
	)
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🌊 Coastal Activities"),
		"",
		fmt.Sprintf("%s %s...", m.spinner.View(), m.loadingStatus),
	)
}

// viewDisplay renders the outlook in a single vertical layout
func (m Model) viewDisplay() string {
	if m.outlook == nil {
		return "No outlook loaded"
	}

	var sections []string
	sections = append(sections, m.renderHeader(), "")

	sections = append(sections,
		sectionHeaderStyle.Render("⛅ CONDITIONS"),
		m.renderConditions(),
	)

	sections = append(sections,
		sectionHeaderStyle.Render("🌊 TIDE"),
		m.renderTide(),
	)

	sections = append(sections,
		sectionHeaderStyle.Render("🎯 RECOMMENDED ACTIVITIES"),
		m.renderTiers(),
	)

	sections = append(sections,
		sectionHeaderStyle.Render("📅 BEST TIME TO VISIT"),
		m.renderBestTime(),
	)

	help := "S: New search • P: Next persona • R: Refresh • Q: Quit"
	if m.stations != nil {
		help = "S: New search • P: Next persona • T: Tide station • R: Refresh • Q: Quit"
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
