// Package geocoding turns a free-text place ("Capitola, CA", "95060",
// "36.97,-122.03") into coordinates using OpenStreetMap Nominatim.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/provider"
)

const nominatimURL = "https://nominatim.openstreetmap.org/search"

var (
	// ErrEmptyQuery is returned for a blank search
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrNoResults is returned when Nominatim finds nothing
	ErrNoResults = errors.New("no results found")

	zipcodePattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	coordinatePattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)
)

// Location represents a geocoded location
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// Geocoder converts addresses to coordinates
type Geocoder struct {
	client   *provider.Client
	baseURL  string
	interval time.Duration
	lastCall time.Time
	mu       sync.Mutex
}

// NewGeocoder creates a new geocoder. Nominatim's usage policy requires an
// identifying User-Agent, which opts carries.
func NewGeocoder(opts provider.Options) *Geocoder {
	return &Geocoder{
		client:   provider.New("nominatim", opts),
		baseURL:  nominatimURL,
		interval: time.Second,
	}
}

// nominatimResponse represents the Nominatim API response
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode converts a query (zipcode, city/state, "lat,lon") to coordinates
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if loc, ok := parseCoordinates(query); ok {
		return loc, nil
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("countrycodes", "us")
	if isZipcode(query) {
		params.Add("postalcode", query[:5])
	} else {
		params.Add("q", query)
	}
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	var results []nominatimResponse
	if err := g.client.GetJSON(ctx, reqURL, &results); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for '%s'", ErrNoResults, query)
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      result.DisplayName,
	}, nil
}

// wait enforces Nominatim's one request per second limit
func (g *Geocoder) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastCall.IsZero() {
		if remaining := g.interval - time.Since(g.lastCall); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	g.lastCall = time.Now()
	return nil
}

// parseCoordinates accepts a literal "lat,lon" pair
func parseCoordinates(s string) (*Location, bool) {
	m := coordinatePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lon, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}
	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      fmt.Sprintf("%.4f, %.4f", lat, lon),
	}, true
}

// isZipcode checks if a string looks like a US zipcode
func isZipcode(s string) bool {
	return zipcodePattern.MatchString(s)
}
