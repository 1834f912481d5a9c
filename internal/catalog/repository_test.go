package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/coastal-activities/internal/database"
	"github.com/ngmaloney/coastal-activities/internal/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func ptr(v float64) *float64 { return &v }

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := &models.Activity{
		ID:                 "natural-bridges-tidepools",
		Title:              "Natural Bridges Tidepools",
		Tags:               []string{"tidepools", "nature"},
		Setting:            models.SettingOutdoor,
		WeatherSuitability: []string{"beach", "sunny"},
		TidePreference:     models.PreferLow,
		OptimalTide:        &models.OptimalTideRange{Max: ptr(1.5)},
		Address:            "2531 W Cliff Dr",
		Cost:               "Free",
	}
	require.NoError(t, repo.Save(ctx, in))

	got, err := repo.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.Nil(t, got.OptimalTide.Min)
	assert.Equal(t, 1.5, *got.OptimalTide.Max)
}

func TestRepository_SaveAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := &models.Activity{Title: "Mystery Spot", Setting: models.SettingMixed}
	require.NoError(t, repo.Save(ctx, a))

	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mystery Spot", got.Title)
	assert.Nil(t, got.Tags)
	assert.Nil(t, got.OptimalTide)
}

func TestRepository_SaveUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := &models.Activity{ID: "mah", Title: "Museum", Setting: models.SettingIndoor}
	require.NoError(t, repo.Save(ctx, a))

	a.Title = "Museum of Art & History"
	a.RainOK = true
	require.NoError(t, repo.Save(ctx, a))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, "mah")
	require.NoError(t, err)
	assert.Equal(t, "Museum of Art & History", got.Title)
	assert.True(t, got.RainOK)
}

func TestRepository_SaveValidates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		activity models.Activity
	}{
		{"missing title", models.Activity{ID: "x"}},
		{"unknown setting", models.Activity{ID: "x", Title: "X", Setting: "underwater"}},
		{"unknown tide preference", models.Activity{ID: "x", Title: "X", TidePreference: "slack"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.activity
			assert.Error(t, repo.Save(ctx, &a))
		})
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_ListOrdered(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"wharf", "beach", "museum"} {
		require.NoError(t, repo.Save(ctx, &models.Activity{ID: id, Title: id}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "beach", list[0].ID)
	assert.Equal(t, "museum", list[1].ID)
	assert.Equal(t, "wharf", list[2].ID)
}

func TestRepository_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Delete(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Activity{ID: "gone", Title: "Gone"}))
	require.NoError(t, repo.Delete(ctx, "gone"))

	_, err := repo.Get(ctx, "gone")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_SeedDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	defaults, err := DefaultActivities()
	require.NoError(t, err)
	require.NotEmpty(t, defaults)

	n, err := repo.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaults), n)

	// second call is a no-op
	n, err = repo.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	tidepools, err := repo.Get(ctx, "natural-bridges-tidepools")
	require.NoError(t, err)
	assert.Equal(t, models.PreferLow, tidepools.TidePreference)
	require.NotNil(t, tidepools.OptimalTide)
	assert.Equal(t, 1.5, *tidepools.OptimalTide.Max)
}

func TestRepository_SeedIsAllOrNothing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch := []models.Activity{
		{ID: "capitola-beach", Title: "Capitola Beach", Setting: models.SettingOutdoor},
		{ID: "untitled"}, // fails validation after the first insert
	}
	require.Error(t, repo.seed(ctx, batch))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a failed seed must leave the table empty")

	// the bundled seed still runs afterwards
	seeded, err := repo.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Positive(t, seeded)
}

func TestDefaultActivities_Valid(t *testing.T) {
	defaults, err := DefaultActivities()
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, a := range defaults {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Title)
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}
