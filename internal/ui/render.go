package ui

import (
	"fmt"
	"strings"

	"github.com/ngmaloney/coastal-activities/internal/recommend"
	"github.com/ngmaloney/coastal-activities/internal/tides"
)

// maxPerTier caps how many activities each tier shows
const maxPerTier = 5

// renderHeader renders the weather emoji, category name and place
func (m Model) renderHeader() string {
	c := m.outlook.Classification
	header := titleStyle.Render(fmt.Sprintf("%s %s", c.Emoji, c.DisplayName))

	place := m.searchQuery
	if m.location != nil && m.location.Name != "" {
		place = m.location.Name
	}
	if place == "" {
		return header
	}
	return header + "\n" + mutedStyle.Render("📍 "+place)
}

// renderConditions renders the reading behind the classification
func (m Model) renderConditions() string {
	r := m.outlook.Reading
	lines := []string{
		valueStyle.Render(m.outlook.Classification.Summary),
		fmt.Sprintf("%s %.0f°F (feels like %.0f°F), %s",
			labelStyle.Render("Now:"), r.Temperature, r.FeelsLike, r.Description),
		fmt.Sprintf("%s %.0f mph  %s %.0f%%  %s %.0f%%",
			labelStyle.Render("Wind:"), r.WindSpeed,
			labelStyle.Render("Rain:"), r.PrecipProbability,
			labelStyle.Render("Clouds:"), r.CloudCover),
	}
	return strings.Join(lines, "\n")
}

// renderTide renders the interpolated tide state, or why it is missing
func (m Model) renderTide() string {
	t := m.outlook.Tide
	if t == nil {
		return mutedStyle.Render("Tide unknown, activities ranked on weather alone")
	}

	arrow := "↓"
	if t.Direction == tides.Rising {
		arrow = "↑"
	}

	line := fmt.Sprintf("%s %.1f ft and %s • next %s %.1f ft at %s (in %s)",
		arrow, t.Height, t.Direction,
		t.Next.Type, t.Next.Height,
		t.Next.Time.Local().Format("3:04 PM"),
		formatMinutes(t.MinutesUntilNext))

	if len(m.outlook.TideEvents) > 0 {
		var day []string
		for _, e := range m.outlook.TideEvents {
			day = append(day, fmt.Sprintf("%s %.1f ft %s", e.Type, e.Height, e.Time.Local().Format("3:04 PM")))
		}
		line += "\n" + labelStyle.Render("Today:") + " " + strings.Join(day, " • ")
	}

	if s := m.outlook.TideStation; s != nil {
		station := s.ID
		if s.Name != "" {
			station = fmt.Sprintf("%s (%s)", s.Name, s.ID)
		}
		line += "\n" + mutedStyle.Render("Station: "+station)
	}
	return line
}

// renderTiers renders the four shown tiers, best first
func (m Model) renderTiers() string {
	recs := m.outlook.Recommendations
	if recs.Len() == 0 {
		return mutedStyle.Render("Nothing in the catalog suits these conditions")
	}

	var lines []string
	for _, group := range recs.Tiers() {
		if len(group.Items) == 0 {
			continue
		}
		lines = append(lines, tierStyle(group.Tier).Render(fmt.Sprintf("%s (%d)", group.Tier.Label(), len(group.Items))))
		for i, s := range group.Items {
			if i == maxPerTier {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("  …and %d more", len(group.Items)-maxPerTier)))
				break
			}
			lines = append(lines, renderActivity(s))
		}
	}
	return strings.Join(lines, "\n")
}

func renderActivity(s recommend.ScoredActivity) string {
	score := fmt.Sprintf("%3d", s.Combined)
	return fmt.Sprintf("  %s  %s\n       %s",
		valueStyle.Render(score),
		s.Activity.Title,
		mutedStyle.Render(s.Reason))
}

// renderBestTime renders the top months for the current persona
func (m Model) renderBestTime() string {
	p := m.currentPersona()
	if p == nil || len(m.bestTime) == 0 {
		return mutedStyle.Render("No seasonal data available")
	}

	lines := []string{labelStyle.Render(fmt.Sprintf("For the %s:", p.Name))}
	for i, ms := range m.bestTime {
		line := fmt.Sprintf("  %d. %s  %s", i+1, ms.Month.Name, valueStyle.Render(fmt.Sprintf("%d", ms.Score)))
		if len(ms.Month.Highlights) > 0 {
			line += "  " + mutedStyle.Render(ms.Month.Highlights[0])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// formatMinutes renders a duration in minutes as "2h 15m" or "40m"
func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	if min%60 == 0 {
		return fmt.Sprintf("%dh", min/60)
	}
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}
