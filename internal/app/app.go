// Package app wires the configured services together for the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ngmaloney/coastal-activities/internal/catalog"
	"github.com/ngmaloney/coastal-activities/internal/config"
	"github.com/ngmaloney/coastal-activities/internal/database"
	"github.com/ngmaloney/coastal-activities/internal/geocoding"
	"github.com/ngmaloney/coastal-activities/internal/noaa"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/provider"
	"github.com/ngmaloney/coastal-activities/internal/reference"
	"github.com/ngmaloney/coastal-activities/internal/stations"
)

// App holds the long-lived services built from a Config
type App struct {
	DB          *sql.DB
	Catalog     *catalog.Repository
	Stations    *stations.Repository
	Provisioner *stations.Provisioner
	Geocoder    *geocoding.Geocoder
	Planner     *planner.Planner
	Reference   *reference.Tables
}

// ProviderOptions maps the provider section of the config onto client options
func ProviderOptions(cfg config.ProviderConfig) provider.Options {
	return provider.Options{
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	}
}

// Build opens the database, seeds the catalog when it is empty and
// constructs every service. Nothing here touches the network.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ref, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		return nil, err
	}
	if _, err := ref.Persona(cfg.Persona); err != nil {
		return nil, fmt.Errorf("default persona: %w", err)
	}

	dbPath := database.Resolve(cfg.Database.Path)
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}

	activities := catalog.NewRepository(db)
	if err := activities.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	seeded, err := activities.SeedDefaults(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	if seeded > 0 {
		logger.Info("seeded activity catalog", "count", seeded, "path", dbPath)
	}

	opts := ProviderOptions(cfg.Providers)
	stationRepo := stations.NewRepository(db)

	p := planner.New(planner.Deps{
		Weather:        noaa.NewWeatherClient(opts),
		Tides:          noaa.NewTideClient(opts),
		Stations:       stationRepo,
		Catalog:        activities,
		Reference:      ref,
		DefaultPersona: cfg.Persona,
		Logger:         logger,
	})

	return &App{
		DB:          db,
		Catalog:     activities,
		Stations:    stationRepo,
		Provisioner: stations.NewProvisioner(stationRepo, provider.New("noaa-stations", opts), logger),
		Geocoder:    geocoding.NewGeocoder(opts),
		Planner:     p,
		Reference:   ref,
	}, nil
}

// EnsureStations downloads the tide station list if it has never been loaded
func (a *App) EnsureStations(ctx context.Context, progress func(string)) error {
	needed, err := a.Provisioner.NeedsProvisioning()
	if err != nil || !needed {
		return err
	}
	return a.Provisioner.Provision(ctx, progress)
}

// Close releases the database
func (a *App) Close() error {
	return a.DB.Close()
}
