// Package catalog persists the activity catalog in SQLite.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/coastal-activities/internal/metrics"
	"github.com/ngmaloney/coastal-activities/internal/models"
)

// ErrNotFound is returned when an activity id is not in the catalog
var ErrNotFound = errors.New("activity not found")

//go:embed seed.yaml
var seedYAML []byte

const schema = `
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		setting TEXT NOT NULL DEFAULT '',
		rain_ok INTEGER NOT NULL DEFAULT 0,
		weather_suitability TEXT NOT NULL DEFAULT '[]',
		tide_preference TEXT NOT NULL DEFAULT '',
		optimal_tide_min REAL,
		optimal_tide_max REAL,
		address TEXT,
		cost TEXT,
		venue TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_activities_tide_preference ON activities(tide_preference);
`

const selectColumns = `id, title, tags, setting, rain_ok, weather_suitability, tide_preference,
	optimal_tide_min, optimal_tide_max, address, cost, venue`

// Repository handles persistence for catalog activities
type Repository struct {
	db       *sql.DB
	validate *validator.Validate
}

// NewRepository creates a repository over an open database
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, validate: validator.New()}
}

// EnsureSchema creates the activities table if needed (safe to call multiple times)
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating activities table: %w", err)
	}
	return nil
}

// List returns every activity ordered by id
func (r *Repository) List(ctx context.Context) (_ []models.Activity, err error) {
	defer track("list", time.Now(), &err)

	rows, err := r.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM activities ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// Get returns one activity by id
func (r *Repository) Get(ctx context.Context, id string) (_ *models.Activity, err error) {
	defer track("get", time.Now(), &err)

	row := r.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM activities WHERE id = ?", id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, err
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save inserts or replaces an activity. An empty id is assigned a new UUID.
func (r *Repository) Save(ctx context.Context, a *models.Activity) (err error) {
	defer track("save", time.Now(), &err)
	return r.save(ctx, r.db, a)
}

func (r *Repository) save(ctx context.Context, db execer, a *models.Activity) error {
	if err := r.validate.Struct(a); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	tags, err := json.Marshal(nonNil(a.Tags))
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	suitability, err := json.Marshal(nonNil(a.WeatherSuitability))
	if err != nil {
		return fmt.Errorf("encoding weather suitability: %w", err)
	}

	var tideMin, tideMax sql.NullFloat64
	if a.OptimalTide != nil {
		if a.OptimalTide.Min != nil {
			tideMin = sql.NullFloat64{Float64: *a.OptimalTide.Min, Valid: true}
		}
		if a.OptimalTide.Max != nil {
			tideMax = sql.NullFloat64{Float64: *a.OptimalTide.Max, Valid: true}
		}
	}

	query := `
		INSERT INTO activities (id, title, tags, setting, rain_ok, weather_suitability, tide_preference,
			optimal_tide_min, optimal_tide_max, address, cost, venue, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			tags = excluded.tags,
			setting = excluded.setting,
			rain_ok = excluded.rain_ok,
			weather_suitability = excluded.weather_suitability,
			tide_preference = excluded.tide_preference,
			optimal_tide_min = excluded.optimal_tide_min,
			optimal_tide_max = excluded.optimal_tide_max,
			address = excluded.address,
			cost = excluded.cost,
			venue = excluded.venue,
			updated_at = excluded.updated_at
	`

	_, err = db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		string(tags),
		string(a.Setting),
		a.RainOK,
		string(suitability),
		string(a.TidePreference),
		tideMin,
		tideMax,
		a.Address,
		a.Cost,
		a.Venue,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("saving activity %s: %w", a.ID, err)
	}
	return nil
}

// Delete removes an activity by id
func (r *Repository) Delete(ctx context.Context, id string) (err error) {
	defer track("delete", time.Now(), &err)

	res, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of stored activities
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting activities: %w", err)
	}
	return n, nil
}

// SeedDefaults loads the bundled catalog when the table is empty and
// returns how many activities were inserted. The seed is all or nothing.
func (r *Repository) SeedDefaults(ctx context.Context) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	defaults, err := DefaultActivities()
	if err != nil {
		return 0, err
	}
	if err := r.seed(ctx, defaults); err != nil {
		return 0, err
	}
	return len(defaults), nil
}

// seed inserts activities in a single transaction
func (r *Repository) seed(ctx context.Context, activities []models.Activity) (err error) {
	defer track("seed", time.Now(), &err)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range activities {
		if err := r.save(ctx, tx, &activities[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}

// DefaultActivities parses the bundled starter catalog
func DefaultActivities() ([]models.Activity, error) {
	var doc struct {
		Activities []models.Activity `yaml:"activities"`
	}
	if err := yaml.Unmarshal(seedYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing bundled catalog: %w", err)
	}
	return doc.Activities, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (*models.Activity, error) {
	var a models.Activity
	var tags, suitability, setting, pref string
	var tideMin, tideMax sql.NullFloat64
	var address, cost, venue sql.NullString // Handle potential nulls

	err := s.Scan(&a.ID, &a.Title, &tags, &setting, &a.RainOK, &suitability, &pref,
		&tideMin, &tideMax, &address, &cost, &venue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(suitability), &a.WeatherSuitability); err != nil {
		return nil, fmt.Errorf("decoding weather suitability for %s: %w", a.ID, err)
	}
	if len(a.Tags) == 0 {
		a.Tags = nil
	}
	if len(a.WeatherSuitability) == 0 {
		a.WeatherSuitability = nil
	}

	a.Setting = models.Setting(setting)
	a.TidePreference = models.TidePreference(pref)
	if tideMin.Valid || tideMax.Valid {
		a.OptimalTide = &models.OptimalTideRange{}
		if tideMin.Valid {
			v := tideMin.Float64
			a.OptimalTide.Min = &v
		}
		if tideMax.Valid {
			v := tideMax.Float64
			a.OptimalTide.Max = &v
		}
	}
	a.Address = address.String
	a.Cost = cost.String
	a.Venue = venue.String

	return &a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func track(operation string, start time.Time, err *error) {
	metrics.RecordCatalogQuery(operation, time.Since(start), *err)
}
