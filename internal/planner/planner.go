// Package planner assembles an activity outlook for a location: it fetches
// the current weather and tide predictions, classifies the weather and ranks
// the catalog.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/metrics"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/noaa"
	"github.com/ngmaloney/coastal-activities/internal/recommend"
	"github.com/ngmaloney/coastal-activities/internal/reference"
	"github.com/ngmaloney/coastal-activities/internal/stations"
	"github.com/ngmaloney/coastal-activities/internal/tides"
	"github.com/ngmaloney/coastal-activities/internal/weather"
)

var (
	// ErrInvalidLocation is returned for coordinates outside the globe
	ErrInvalidLocation = errors.New("invalid location")
	// ErrWeatherUnavailable wraps any failure to obtain the current weather
	ErrWeatherUnavailable = errors.New("weather unavailable")
)

// ActivitySource supplies the catalog snapshot to rank
type ActivitySource interface {
	List(ctx context.Context) ([]models.Activity, error)
}

// StationFinder resolves the nearest tide station to a point
type StationFinder interface {
	Nearest(ctx context.Context, lat, lon float64, maxDistanceMiles float64) (*stations.TideStationInfo, error)
}

// Deps are the planner's collaborators. Tides and Stations may be nil, in
// which case outlooks rank on weather alone.
type Deps struct {
	Weather        noaa.WeatherClient
	Tides          noaa.TideClient
	Stations       StationFinder
	Catalog        ActivitySource
	Reference      *reference.Tables
	DefaultPersona string
	Logger         *slog.Logger
}

// Planner produces outlooks and best-time rankings
type Planner struct {
	weather        noaa.WeatherClient
	tides          noaa.TideClient
	stations       StationFinder
	catalog        ActivitySource
	ref            *reference.Tables
	defaultPersona string
	logger         *slog.Logger
	now            func() time.Time
}

// New creates a planner
func New(d Deps) *Planner {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		weather:        d.Weather,
		tides:          d.Tides,
		stations:       d.Stations,
		catalog:        d.Catalog,
		ref:            d.Reference,
		defaultPersona: d.DefaultPersona,
		logger:         logger,
		now:            time.Now,
	}
}

// Request identifies where and when to plan for. A blank TideStation is
// resolved to the nearest station; a zero At means now.
type Request struct {
	Latitude    float64
	Longitude   float64
	TideStation string
	At          time.Time
}

// Outlook is the full answer for one request
type Outlook struct {
	Reading         models.WeatherReading     `json:"reading"`
	Classification  weather.Classification    `json:"classification"`
	Tide            *tides.State              `json:"tide,omitempty"`
	TideStation     *stations.TideStationInfo `json:"tide_station,omitempty"`
	TideEvents      []models.TideEvent        `json:"tide_events,omitempty"` // highs and lows on the request's day
	Recommendations recommend.Recommendations `json:"recommendations"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

// Outlook fetches weather and tides concurrently and ranks the catalog.
// A tide failure degrades to a weather-only ranking; a weather or catalog
// failure is returned.
func (p *Planner) Outlook(ctx context.Context, req Request) (*Outlook, error) {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return nil, fmt.Errorf("%w: %.4f, %.4f", ErrInvalidLocation, req.Latitude, req.Longitude)
	}
	at := req.At
	if at.IsZero() {
		at = p.now()
	}

	var (
		reading    *models.WeatherReading
		activities []models.Activity
		series     *models.TideSeries
		station    *stations.TideStationInfo
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := p.weather.GetReadingAt(gctx, req.Latitude, req.Longitude, at)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWeatherUnavailable, err)
		}
		reading = r
		return nil
	})

	g.Go(func() error {
		a, err := p.catalog.List(gctx)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		activities = a
		return nil
	})

	// Tide problems never fail the group
	g.Go(func() error {
		station, series = p.fetchTides(gctx, req, at)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	classification := weather.Classify(*reading)

	var (
		tide   *tides.State
		events []models.TideEvent
	)
	if series != nil {
		events = series.EventsForDay(at)
		s, err := tides.Interpolate(series, at)
		if err != nil {
			p.logger.Warn("tide unknown, ranking on weather only",
				"station", series.StationID, "at", at, "error", err)
		} else {
			tide = &s
		}
	}

	recs := recommend.Rank(activities, classification, tide)

	counts := make(map[string]int, 4)
	for _, tg := range recs.Tiers() {
		counts[string(tg.Tier)] = len(tg.Items)
	}
	metrics.RecordOutlook(string(classification.Category), counts, tide != nil)

	p.logger.Debug("outlook generated",
		"category", classification.Category,
		"activities", recs.Len(),
		"tide_known", tide != nil)

	return &Outlook{
		Reading:         *reading,
		Classification:  classification,
		Tide:            tide,
		TideStation:     station,
		TideEvents:      events,
		Recommendations: recs,
		GeneratedAt:     p.now(),
	}, nil
}

// fetchTides resolves a station and loads predictions spanning at. Any
// failure is logged and yields a nil series.
func (p *Planner) fetchTides(ctx context.Context, req Request, at time.Time) (*stations.TideStationInfo, *models.TideSeries) {
	if p.tides == nil {
		return nil, nil
	}

	station := &stations.TideStationInfo{ID: req.TideStation}
	if station.ID == "" {
		if p.stations == nil {
			return nil, nil
		}
		nearest, err := p.stations.Nearest(ctx, req.Latitude, req.Longitude, stations.DefaultSearchMiles)
		if err != nil {
			p.logger.Warn("no tide station for location",
				"lat", req.Latitude, "lon", req.Longitude, "error", err)
			return nil, nil
		}
		station = nearest
	}

	// A day either side guarantees events bracketing at
	series, err := p.tides.GetTidePredictions(ctx, station.ID, at.AddDate(0, 0, -1), at.AddDate(0, 0, 1))
	if err != nil {
		p.logger.Warn("tide predictions unavailable", "station", station.ID, "error", err)
		return station, nil
	}
	if station.Name == "" {
		station.Name = series.StationName
	}
	return station, series
}

// BestTime ranks the months for a persona, best first, keeping the top n.
// A blank persona id uses the configured default.
func (p *Planner) BestTime(personaID string, n int) ([]besttime.MonthScore, error) {
	if personaID == "" {
		personaID = p.defaultPersona
	}
	persona, err := p.ref.Persona(personaID)
	if err != nil {
		return nil, err
	}
	return besttime.TopMonths(p.ref.MonthsCopy(), persona, n), nil
}

// Personas lists the known visitor personas
func (p *Planner) Personas() []models.VisitorPersona {
	out := make([]models.VisitorPersona, len(p.ref.Personas))
	copy(out, p.ref.Personas)
	return out
}

// Region names the area the reference tables describe
func (p *Planner) Region() string {
	return p.ref.Region
}
