// Package stations resolves a coordinate to the nearest NOAA tide
// prediction station using a local SQLite copy of the station list.
package stations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/metrics"
)

var (
	// ErrNoStations is returned when no station lies within the search radius
	ErrNoStations = errors.New("no tide stations nearby")
	// ErrStationNotFound is returned for an unknown station id
	ErrStationNotFound = errors.New("tide station not found")
)

// DefaultSearchMiles is the radius used when looking up a station for a location
const DefaultSearchMiles = 50.0

// TideStationInfo represents a tide station with its distance from a point
type TideStationInfo struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance_miles"` // Distance in miles
}

// Repository queries the tide_stations table
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindNearby finds tide stations within maxDistanceMiles, nearest first.
func (r *Repository) FindNearby(ctx context.Context, lat, lon float64, maxDistanceMiles float64) (_ []TideStationInfo, err error) {
	defer track("stations_nearby", time.Now(), &err)

	// Use a bounding box to initially filter stations for performance.
	// 1 degree of latitude is roughly 69 miles; the 1.5x margin keeps edge stations.
	latDelta := (maxDistanceMiles / 69.0) * 1.5
	lonDelta := (maxDistanceMiles / (69.0 * math.Cos(lat*math.Pi/180))) * 1.5

	query := `
		SELECT id, name, state, latitude, longitude
		FROM tide_stations
		WHERE latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
	`

	rows, err := r.db.QueryContext(ctx, query,
		lat-latDelta, lat+latDelta,
		lon-lonDelta, lon+lonDelta)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	var nearby []TideStationInfo
	for rows.Next() {
		var s TideStationInfo
		var state sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &state, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		s.State = state.String

		s.Distance = HaversineDistance(lat, lon, s.Latitude, s.Longitude)
		if s.Distance <= maxDistanceMiles {
			nearby = append(nearby, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading stations: %w", err)
	}

	if len(nearby) == 0 {
		return nil, fmt.Errorf("%w: %.4f, %.4f within %.1f miles", ErrNoStations, lat, lon, maxDistanceMiles)
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].Distance != nearby[j].Distance {
			return nearby[i].Distance < nearby[j].Distance
		}
		return nearby[i].ID < nearby[j].ID
	})

	return nearby, nil
}

// Nearest returns the single closest station within maxDistanceMiles
func (r *Repository) Nearest(ctx context.Context, lat, lon float64, maxDistanceMiles float64) (*TideStationInfo, error) {
	nearby, err := r.FindNearby(ctx, lat, lon, maxDistanceMiles)
	if err != nil {
		return nil, err
	}
	return &nearby[0], nil
}

// GetByID retrieves a single tide station by its ID.
func (r *Repository) GetByID(ctx context.Context, stationID string) (_ *TideStationInfo, err error) {
	defer track("stations_get", time.Now(), &err)

	var s TideStationInfo
	var state sql.NullString
	err = r.db.QueryRowContext(ctx,
		"SELECT id, name, state, latitude, longitude FROM tide_stations WHERE id = ?",
		stationID,
	).Scan(&s.ID, &s.Name, &state, &s.Latitude, &s.Longitude)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tide station by ID: %w", err)
	}
	s.State = state.String
	return &s, nil
}

// HaversineDistance calculates the great-circle distance between two points in miles
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMiles = 3959.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

func track(operation string, start time.Time, err *error) {
	metrics.RecordCatalogQuery(operation, time.Since(start), *err)
}
