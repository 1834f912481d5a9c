package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/geocoding"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/stations"
)

// Geocoder resolves a search string to a location
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geocoding.Location, error)
}

// Planner builds outlooks and best-time rankings
type Planner interface {
	Outlook(ctx context.Context, req planner.Request) (*planner.Outlook, error)
	BestTime(personaID string, n int) ([]besttime.MonthScore, error)
	Personas() []models.VisitorPersona
}

// StationLister finds tide stations near a point
type StationLister interface {
	FindNearby(ctx context.Context, lat, lon float64, maxDistanceMiles float64) ([]stations.TideStationInfo, error)
}

// Provisioner loads the tide station list on first run
type Provisioner interface {
	NeedsProvisioning() (bool, error)
	Provision(ctx context.Context, progress func(string)) error
}

// Message types for async operations

// geocodeMsg is sent when geocoding completes
type geocodeMsg struct {
	location *geocoding.Location
	err      error
}

// outlookMsg is sent when an outlook has been built
type outlookMsg struct {
	outlook *planner.Outlook
	err     error
}

// stationsFoundMsg is sent when nearby tide stations are found
type stationsFoundMsg struct {
	stations []stations.TideStationInfo
	err      error
}

// provisioningStartedMsg carries the channels of a running provisioning job
type provisioningStartedMsg struct {
	progressChan chan string
	resultChan   chan error
}

// provisionStatusMsg is one progress line from provisioning
type provisionStatusMsg string

// provisionResultMsg is sent when provisioning finishes
type provisionResultMsg struct {
	err error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// geocodeLocation performs geocoding in the background
func geocodeLocation(geocoder Geocoder, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		location, err := geocoder.Geocode(ctx, query)
		return geocodeMsg{location: location, err: err}
	}
}

// fetchOutlook builds the outlook for a location in the background
func fetchOutlook(p Planner, req planner.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		outlook, err := p.Outlook(ctx, req)
		return outlookMsg{outlook: outlook, err: err}
	}
}

// findNearbyStations lists tide stations around a location
func findNearbyStations(lister StationLister, lat, lon float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		found, err := lister.FindNearby(ctx, lat, lon, stations.DefaultSearchMiles)
		return stationsFoundMsg{stations: found, err: err}
	}
}

// startProvisioning runs the provisioner and streams its progress
func startProvisioning(p Provisioner) tea.Cmd {
	return func() tea.Msg {
		progress := make(chan string, 8)
		result := make(chan error, 1)
		go func() {
			defer close(progress)
			result <- p.Provision(context.Background(), func(s string) {
				select {
				case progress <- s:
				default: // drop when the UI is behind
				}
			})
		}()
		return provisioningStartedMsg{progressChan: progress, resultChan: result}
	}
}

// waitForProvisionStatus waits for the next progress line
func waitForProvisionStatus(ch chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return provisionStatusMsg(s)
	}
}

// waitForProvisionResult waits for provisioning to finish
func waitForProvisionResult(ch chan error) tea.Cmd {
	return func() tea.Msg {
		return provisionResultMsg{err: <-ch}
	}
}
