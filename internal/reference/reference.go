// Package reference holds the static month and persona tables used by the
// best-time scorer. The bundled tables are parsed once per process.
package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

//go:embed reference.yaml
var bundled []byte

// ErrUnknownPersona is returned when a persona id is not in the table
var ErrUnknownPersona = errors.New("unknown persona")

// Tables is an immutable set of reference data
type Tables struct {
	Region   string                  `yaml:"region"`
	Months   []models.MonthProfile   `yaml:"months"`
	Personas []models.VisitorPersona `yaml:"personas"`
}

var (
	defaultTables *Tables
	defaultErr    error
	once          sync.Once
)

// Default returns the bundled tables, parsing them on first use
func Default() (*Tables, error) {
	once.Do(func() {
		defaultTables, defaultErr = Parse(bundled)
	})
	return defaultTables, defaultErr
}

// Load returns the tables from path, or the bundled tables when path is empty
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a reference document
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if len(t.Months) != 12 {
		return fmt.Errorf("reference data needs 12 months, got %d", len(t.Months))
	}
	seen := make(map[int]bool, 12)
	for _, m := range t.Months {
		if m.Month < 1 || m.Month > 12 {
			return fmt.Errorf("month %q has invalid number %d", m.Name, m.Month)
		}
		if seen[m.Month] {
			return fmt.Errorf("month %d listed twice", m.Month)
		}
		seen[m.Month] = true
		if m.GeneralScore < 0 || m.GeneralScore > 100 {
			return fmt.Errorf("month %d general score %d out of range", m.Month, m.GeneralScore)
		}
	}

	if len(t.Personas) == 0 {
		return errors.New("reference data has no personas")
	}
	ids := make(map[string]bool, len(t.Personas))
	for _, p := range t.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona %q has no id", p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("persona %s listed twice", p.ID)
		}
		ids[p.ID] = true
		for _, w := range []float64{p.WarmthWeight, p.DrynessWeight, p.FewerCrowdsWeight, p.AffordabilityWeight} {
			if w < 0 || w > 1 {
				return fmt.Errorf("persona %s has weight %.2f outside [0,1]", p.ID, w)
			}
		}
	}
	return nil
}

// Persona looks up a persona by id
func (t *Tables) Persona(id string) (models.VisitorPersona, error) {
	for _, p := range t.Personas {
		if p.ID == id {
			return p, nil
		}
	}
	return models.VisitorPersona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
}

// Month returns the profile for a calendar month (1-12)
func (t *Tables) Month(n int) (models.MonthProfile, bool) {
	for _, m := range t.Months {
		if m.Month == n {
			return m, true
		}
	}
	return models.MonthProfile{}, false
}

// MonthsCopy returns the month profiles in a fresh slice so callers cannot
// alter the shared table.
func (t *Tables) MonthsCopy() []models.MonthProfile {
	out := make([]models.MonthProfile, len(t.Months))
	copy(out, t.Months)
	return out
}
