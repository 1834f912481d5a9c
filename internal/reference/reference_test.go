package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/models"
)

func TestDefault(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Santa Cruz, CA", tables.Region)
	assert.Len(t, tables.Months, 12)
	assert.Len(t, tables.Personas, 5)

	sep, ok := tables.Month(9)
	require.True(t, ok)
	assert.Equal(t, 73.0, sep.AvgHighTemp)
	assert.Equal(t, models.CrowdHigh, sep.CrowdLevel)

	jul, ok := tables.Month(7)
	require.True(t, ok)
	assert.Equal(t, models.CrowdVeryHigh, jul.CrowdLevel)

	_, ok = tables.Month(13)
	assert.False(t, ok)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, tables, again)
}

func TestPersona(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	p, err := tables.Persona("budget-traveler")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.AffordabilityWeight)

	_, err = tables.Persona("space-tourist")
	assert.True(t, errors.Is(err, ErrUnknownPersona))
}

func TestMonthsCopy(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	months := tables.MonthsCopy()
	months[0].AvgHighTemp = 999
	assert.NotEqual(t, 999.0, tables.Months[0].AvgHighTemp)
}

func TestBudgetTravelerPrefersNovemberToSeptember(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)
	p, err := tables.Persona("budget-traveler")
	require.NoError(t, err)

	sep, _ := tables.Month(9)
	nov, _ := tables.Month(11)
	assert.Less(t, besttime.ScoreMonthForPersona(sep, p), besttime.ScoreMonthForPersona(nov, p))

	top := besttime.TopMonths(tables.MonthsCopy(), p, 3)
	require.Len(t, top, 3)
	for _, m := range top {
		assert.Equal(t, models.CrowdLow, m.Month.CrowdLevel)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "months: [unclosed"},
		{"too few months", "months:\n  - month: 1\npersonas:\n  - id: a\n"},
		{"bad crowd level", "months:\n  - month: 1\n    crowd_level: packed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_ValidationRules(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	clone := func() *Tables {
		c := &Tables{Region: base.Region}
		c.Months = base.MonthsCopy()
		c.Personas = append([]models.VisitorPersona(nil), base.Personas...)
		return c
	}

	dup := clone()
	dup.Months[1].Month = 1
	assert.Error(t, dup.validate())

	badWeight := clone()
	badWeight.Personas[0].WarmthWeight = 1.5
	assert.Error(t, badWeight.validate())

	noID := clone()
	noID.Personas[2].ID = ""
	assert.Error(t, noID.validate())

	noPersonas := clone()
	noPersonas.Personas = nil
	assert.Error(t, noPersonas.validate())

	assert.NoError(t, clone().validate())
}

func TestLoad(t *testing.T) {
	bundledTables, err := Load("")
	require.NoError(t, err)
	def, _ := Default()
	assert.Same(t, def, bundledTables)

	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, bundled, 0o644))
	fromFile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, def.Months, fromFile.Months)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
