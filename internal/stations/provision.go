package stations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ngmaloney/coastal-activities/internal/database"
	"github.com/ngmaloney/coastal-activities/internal/provider"
)

// StationListURL is the NOAA MDAPI base for the station inventory
const StationListURL = "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi"

// Station represents a NOAA tide station as listed by MDAPI
type Station struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// stationResponse represents the NOAA MDAPI response for multiple stations
type stationResponse struct {
	Stations []Station `json:"stations"`
}

// Provisioner downloads the station list into the local database on first use
type Provisioner struct {
	repo    *Repository
	client  *provider.Client
	baseURL string
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewProvisioner creates a provisioner that fetches through client
func NewProvisioner(repo *Repository, client *provider.Client, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		repo:    repo,
		client:  client,
		baseURL: StationListURL,
		logger:  logger,
	}
}

// NeedsProvisioning reports whether the tide_stations table is missing
func (p *Provisioner) NeedsProvisioning() (bool, error) {
	exists, err := database.TableExists(p.repo.db, "tide_stations")
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Provision fetches all tide prediction stations and stores them, unless the
// table already exists. progress may be nil.
func (p *Provisioner) Provision(ctx context.Context, progress func(string)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	needs, err := p.NeedsProvisioning()
	if err != nil {
		return err
	}
	if !needs {
		return nil
	}

	report := func(msg string, args ...any) {
		p.logger.Info(msg, args...)
		if progress != nil {
			progress(msg)
		}
	}

	report("downloading tide station list", "source", p.baseURL)
	stations, err := p.fetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetching all tide stations: %w", err)
	}

	report("building tide stations table", "count", len(stations))
	inserted, err := p.build(ctx, stations)
	if err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	report("tide stations provisioned", "inserted", inserted)
	return nil
}

// fetchAll fetches all active tide stations from the NOAA MDAPI
func (p *Provisioner) fetchAll(ctx context.Context) ([]Station, error) {
	apiURL := fmt.Sprintf("%s/stations.json?type=tidepredictions", p.baseURL)

	var resp stationResponse
	if err := p.client.GetJSON(ctx, apiURL, &resp); err != nil {
		return nil, err
	}
	return resp.Stations, nil
}

// build creates the tide_stations table and inserts stations in one transaction
func (p *Provisioner) build(ctx context.Context, stations []Station) (int, error) {
	tx, err := p.repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tide_stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tide_stations_coords ON tide_stations(latitude, longitude);
	`)
	if err != nil {
		return 0, fmt.Errorf("creating tide_stations table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO tide_stations (id, name, state, latitude, longitude) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.State, s.Latitude, s.Longitude); err != nil {
			p.logger.Warn("skipping tide station", "id", s.ID, "error", err)
			continue
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}
