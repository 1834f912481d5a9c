package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/catalog"
	"github.com/ngmaloney/coastal-activities/internal/geocoding"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/recommend"
	"github.com/ngmaloney/coastal-activities/internal/reference"
	"github.com/ngmaloney/coastal-activities/internal/stations"
	"github.com/ngmaloney/coastal-activities/internal/tides"
	"github.com/ngmaloney/coastal-activities/internal/ui"
	"github.com/ngmaloney/coastal-activities/internal/weather"
)

// demoPlanner answers every request with the same canned outlook
type demoPlanner struct {
	outlook *planner.Outlook
	ref     *reference.Tables
}

func (d demoPlanner) Outlook(ctx context.Context, req planner.Request) (*planner.Outlook, error) {
	return d.outlook, nil
}

func (d demoPlanner) BestTime(personaID string, n int) ([]besttime.MonthScore, error) {
	p, err := d.ref.Persona(personaID)
	if err != nil {
		return nil, err
	}
	return besttime.TopMonths(d.ref.MonthsCopy(), p, n), nil
}

func (d demoPlanner) Personas() []models.VisitorPersona {
	return d.ref.Personas
}

// This demo shows the UI with mock data
func main() {
	ref, err := reference.Default()
	if err != nil {
		fmt.Printf("Error loading reference data: %v\n", err)
		os.Exit(1)
	}
	activities, err := catalog.DefaultActivities()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	// A clear, mild day fifteen minutes before low tide
	now := time.Now()
	series := &models.TideSeries{
		StationID:   "9413745",
		StationName: "Santa Cruz, Monterey Bay",
		Events: []models.TideEvent{
			{Time: now.Add(-6 * time.Hour), Type: models.TideHigh, Height: 5.9},
			{Time: now.Add(15 * time.Minute), Type: models.TideLow, Height: 0.5},
			{Time: now.Add(6 * time.Hour), Type: models.TideHigh, Height: 6.2},
		},
	}

	reading := models.WeatherReading{
		Temperature:       72,
		FeelsLike:         72,
		Condition:         models.ConditionClear,
		Description:       "Sunny",
		Humidity:          60,
		WindSpeed:         8,
		PrecipProbability: 0,
		CloudCover:        10,
		ObservedAt:        now,
	}
	c := weather.Classify(reading)

	tide, err := tides.Interpolate(series, now)
	if err != nil {
		fmt.Printf("Error interpolating tide: %v\n", err)
		os.Exit(1)
	}

	outlook := &planner.Outlook{
		Reading:         reading,
		Classification:  c,
		Tide:            &tide,
		TideEvents:      series.EventsForDay(now),
		TideStation:     &stations.TideStationInfo{ID: series.StationID, Name: series.StationName, State: "CA", Distance: 1.3},
		Recommendations: recommend.Rank(activities, c, &tide),
		GeneratedAt:     now,
	}

	m := ui.NewModel(ui.Services{
		Planner: demoPlanner{outlook: outlook, ref: ref},
		Persona: "beach-lover",
	})
	m.SetLocation("Santa Cruz, CA", &geocoding.Location{
		Latitude:  36.9741,
		Longitude: -122.0308,
		Name:      "Santa Cruz, California",
	})
	m.SetOutlook(outlook)
	m.SetState(ui.StateDisplay)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running demo: %v\n", err)
		os.Exit(1)
	}
}
