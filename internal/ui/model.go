package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/geocoding"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/stations"
)

// bestTimeMonths is how many months the best-time section lists
const bestTimeMonths = 3

// AppState represents the current state of the application
type AppState int

const (
	StateSearch       AppState = iota // Search for location (zipcode/city/state)
	StateLoading                      // Geocoding and building the outlook
	StateDisplay                      // Display the outlook
	StateStationList                  // Pick a different tide station
	StateProvisioning                 // Initial data provisioning (downloading station list)
	StateError                        // Error state
)

// Services are the collaborators the UI drives. Stations and Provisioner
// may be nil.
type Services struct {
	Geocoder    Geocoder
	Planner     Planner
	Stations    StationLister
	Provisioner Provisioner
	Persona     string
	Query       string // searched immediately when set
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	// Search
	searchInput textinput.Model
	searchQuery string // Last search query
	location    *geocoding.Location
	station     string // explicit tide station, empty for nearest

	// Stations
	stationList list.Model

	// Services
	geocoder    Geocoder
	planner     Planner
	stations    StationLister
	provisioner Provisioner

	// Data
	outlook    *planner.Outlook
	personas   []models.VisitorPersona
	personaIdx int
	bestTime   []besttime.MonthScore

	// Loading and provisioning
	spinner           spinner.Model
	loadingStatus     string
	provisionStatus   string
	provisionChannels *provisioningStartedMsg
}

// NewModel creates a new application model
func NewModel(svc Services) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter zipcode, city, state or lat,lon (e.g. 95060 or Capitola, CA)..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		state:       StateSearch,
		searchInput: ti,
		geocoder:    svc.Geocoder,
		planner:     svc.Planner,
		stations:    svc.Stations,
		provisioner: svc.Provisioner,
		spinner:     s,
	}

	if svc.Planner != nil {
		m.personas = svc.Planner.Personas()
		for i, p := range m.personas {
			if p.ID == svc.Persona {
				m.personaIdx = i
			}
		}
		m.refreshBestTime()
	}

	if svc.Query != "" {
		m.searchInput.SetValue(svc.Query)
		m.searchQuery = svc.Query
		m.state = StateLoading
		m.loadingStatus = "Looking up " + svc.Query
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.provisioner != nil {
		needed, err := m.provisioner.NeedsProvisioning()
		if err == nil && needed {
			return tea.Batch(m.spinner.Tick, startProvisioning(m.provisioner))
		}
	}
	if m.state == StateLoading && m.searchQuery != "" {
		return tea.Batch(m.spinner.Tick, geocodeLocation(m.geocoder, m.searchQuery))
	}
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateStationList {
			m.stationList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case provisioningStartedMsg:
		m.state = StateProvisioning
		m.provisionStatus = "Starting data provisioning..."
		m.provisionChannels = &msg
		return m, tea.Batch(
			waitForProvisionStatus(msg.progressChan),
			waitForProvisionResult(msg.resultChan),
		)

	case provisionStatusMsg:
		m.provisionStatus = string(msg)
		if m.provisionChannels != nil {
			return m, waitForProvisionStatus(m.provisionChannels.progressChan)
		}
		return m, nil

	case provisionResultMsg:
		m.provisionChannels = nil
		if msg.err != nil {
			m.err = fmt.Errorf("provisioning failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		// resume a search requested on the command line
		if m.searchQuery != "" && m.location == nil {
			m.state = StateLoading
			m.loadingStatus = "Looking up " + m.searchQuery
			return m, tea.Batch(m.spinner.Tick, geocodeLocation(m.geocoder, m.searchQuery))
		}
		m.state = StateSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case geocodeMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("geocoding failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.location = msg.location
		m.loadingStatus = "Fetching weather and tides"
		return m, fetchOutlook(m.planner, m.request())

	case outlookMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("building outlook failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.outlook = msg.outlook
		m.state = StateDisplay
		return m, nil

	case stationsFoundMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("finding tide stations failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.stationList = createStationList(msg.stations, m.width-4, m.height-10)
		m.state = StateStationList
		return m, nil

	case spinner.TickMsg:
		if m.state == StateLoading || m.state == StateProvisioning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// q types into the search box, so it only quits elsewhere
		if keyMsg.String() == "q" && m.state != StateSearch {
			return m, tea.Quit
		}

		switch m.state {
		case StateSearch:
			return m.handleSearchInput(keyMsg)

		case StateStationList:
			return m.handleStationList(msg)

		case StateDisplay:
			return m.handleDisplayKeys(keyMsg)

		case StateError:
			// Any key returns to search (except quit keys)
			m.state = StateSearch
			m.err = nil
			m.searchInput.Focus()
			return m, textinput.Blink
		}
	}

	switch m.state {
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateStationList:
		m.stationList, cmd = m.stationList.Update(msg)
	}

	return m, cmd
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyEnter {
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searchQuery = query
		m.err = nil
		m.station = ""
		m.outlook = nil
		m.state = StateLoading
		m.loadingStatus = "Looking up " + query
		return m, tea.Batch(m.spinner.Tick, geocodeLocation(m.geocoder, query))
	}

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleDisplayKeys handles keyboard input on the outlook screen
func (m Model) handleDisplayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		m.state = StateSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.outlook = nil
		m.location = nil
		m.station = ""
		return m, textinput.Blink

	case "p":
		if len(m.personas) > 0 {
			m.personaIdx = (m.personaIdx + 1) % len(m.personas)
			m.refreshBestTime()
		}
		return m, nil

	case "r":
		if m.location != nil {
			m.state = StateLoading
			m.loadingStatus = "Refreshing outlook"
			return m, tea.Batch(m.spinner.Tick, fetchOutlook(m.planner, m.request()))
		}
		return m, nil

	case "t":
		if m.location != nil && m.stations != nil {
			return m, findNearbyStations(m.stations, m.location.Latitude, m.location.Longitude)
		}
		return m, nil
	}
	return m, nil
}

// handleStationList handles keyboard input in station list state
func (m Model) handleStationList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter {
			if item, ok := m.stationList.SelectedItem().(stationItem); ok {
				m.station = item.station.ID
				m.state = StateLoading
				m.loadingStatus = "Fetching tides for " + item.station.Name
				return m, tea.Batch(m.spinner.Tick, fetchOutlook(m.planner, m.request()))
			}
		}
		if keyMsg.Type == tea.KeyEsc {
			m.state = StateDisplay
			return m, nil
		}
	}

	m.stationList, cmd = m.stationList.Update(msg)
	return m, cmd
}

func (m Model) request() planner.Request {
	req := planner.Request{TideStation: m.station}
	if m.location != nil {
		req.Latitude = m.location.Latitude
		req.Longitude = m.location.Longitude
	}
	return req
}

// refreshBestTime recomputes the best-time months for the current persona
func (m *Model) refreshBestTime() {
	p := m.currentPersona()
	if p == nil || m.planner == nil {
		m.bestTime = nil
		return
	}
	months, err := m.planner.BestTime(p.ID, bestTimeMonths)
	if err != nil {
		m.bestTime = nil
		return
	}
	m.bestTime = months
}

func (m Model) currentPersona() *models.VisitorPersona {
	if len(m.personas) == 0 {
		return nil
	}
	return &m.personas[m.personaIdx]
}

// State returns the current screen
func (m Model) State() AppState {
	return m.state
}

// SetState sets the current state (for demos and testing)
func (m *Model) SetState(state AppState) {
	m.state = state
}

// SetLocation sets the searched location (for demos and testing)
func (m *Model) SetLocation(query string, loc *geocoding.Location) {
	m.searchQuery = query
	m.location = loc
}

// SetOutlook sets the displayed outlook (for demos and testing)
func (m *Model) SetOutlook(o *planner.Outlook) {
	m.outlook = o
}

// SetStations shows the station picker with the given stations (for demos and testing)
func (m *Model) SetStations(found []stations.TideStationInfo) {
	m.stationList = createStationList(found, 80, 20)
	m.state = StateStationList
}
