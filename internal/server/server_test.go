package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/coastal-activities/internal/besttime"
	"github.com/ngmaloney/coastal-activities/internal/catalog"
	"github.com/ngmaloney/coastal-activities/internal/config"
	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/recommend"
	"github.com/ngmaloney/coastal-activities/internal/reference"
	"github.com/ngmaloney/coastal-activities/internal/weather"
)

type fakePlanner struct {
	lastReq     planner.Request
	outlookErr  error
	lastPersona string
	lastN       int
}

func (f *fakePlanner) Outlook(ctx context.Context, req planner.Request) (*planner.Outlook, error) {
	f.lastReq = req
	if f.outlookErr != nil {
		return nil, f.outlookErr
	}
	c := weather.NewClassification(weather.PerfectSunny, "test")
	return &planner.Outlook{
		Reading:        models.WeatherReading{Temperature: 72, Condition: models.ConditionClear},
		Classification: c,
		Recommendations: recommend.Rank([]models.Activity{
			{ID: "beach", Title: "Main Beach", Setting: models.SettingOutdoor, WeatherSuitability: []string{"perfect-sunny"}},
		}, c, nil),
		GeneratedAt: time.Date(2025, 6, 14, 13, 45, 0, 0, time.UTC),
	}, nil
}

func (f *fakePlanner) BestTime(personaID string, n int) ([]besttime.MonthScore, error) {
	f.lastPersona, f.lastN = personaID, n
	if personaID == "pirate" {
		return nil, fmt.Errorf("%w: %q", reference.ErrUnknownPersona, personaID)
	}
	out := make([]besttime.MonthScore, n)
	for i := range out {
		out[i] = besttime.MonthScore{Month: models.MonthProfile{Month: i + 1}, Score: 90 - i}
	}
	return out, nil
}

func (f *fakePlanner) Personas() []models.VisitorPersona {
	return []models.VisitorPersona{{ID: "beach-lover", Name: "Beach Lover"}}
}

type fakeCatalog struct{}

func (fakeCatalog) List(ctx context.Context) ([]models.Activity, error) {
	return []models.Activity{{ID: "beach", Title: "Main Beach"}, {ID: "museum", Title: "MAH"}}, nil
}

func (fakeCatalog) Get(ctx context.Context, id string) (*models.Activity, error) {
	if id == "beach" {
		return &models.Activity{ID: "beach", Title: "Main Beach"}, nil
	}
	return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
}

func newTestServer(p *fakePlanner) *Server {
	return New(config.Default(), p, fakeCatalog{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newTestServer(&fakePlanner{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestOutlook_DefaultsToConfiguredLocation(t *testing.T) {
	p := &fakePlanner{}
	rec, body := get(t, newTestServer(p), "/v1/outlook")

	require.Equal(t, http.StatusOK, rec.Code)
	cfg := config.Default()
	assert.Equal(t, cfg.Location.Latitude, p.lastReq.Latitude)
	assert.Equal(t, cfg.Location.TideStation, p.lastReq.TideStation)

	data := body["data"].(map[string]any)
	recs := data["recommendations"].(map[string]any)
	assert.Len(t, recs["perfect"], 1)
}

func TestOutlook_Params(t *testing.T) {
	p := &fakePlanner{}
	rec, _ := get(t, newTestServer(p), "/v1/outlook?lat=36.6&lon=-121.9&station=9413450&at=2025-06-14T17:00:00Z")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 36.6, p.lastReq.Latitude)
	assert.Equal(t, -121.9, p.lastReq.Longitude)
	assert.Equal(t, "9413450", p.lastReq.TideStation)
	assert.True(t, p.lastReq.At.Equal(time.Date(2025, 6, 14, 17, 0, 0, 0, time.UTC)))
}

func TestOutlook_CoordinatesWithoutStationResolveNearest(t *testing.T) {
	p := &fakePlanner{}
	rec, _ := get(t, newTestServer(p), "/v1/outlook?lat=36.6&lon=-121.9")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, p.lastReq.TideStation)
}

func TestOutlook_BadRequests(t *testing.T) {
	for _, target := range []string{
		"/v1/outlook?lat=36.6",
		"/v1/outlook?lat=abc&lon=-121.9",
		"/v1/outlook?lat=36.6&lon=-121.9&at=tomorrow",
	} {
		rec, body := get(t, newTestServer(&fakePlanner{}), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestOutlook_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: 91, 0", planner.ErrInvalidLocation), http.StatusBadRequest},
		{fmt.Errorf("%w: timeout", planner.ErrWeatherUnavailable), http.StatusBadGateway},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec, _ := get(t, newTestServer(&fakePlanner{outlookErr: tt.err}), "/v1/outlook")
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}

func TestBestTime(t *testing.T) {
	p := &fakePlanner{}
	rec, body := get(t, newTestServer(p), "/v1/best-time?persona=family&n=5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "family", p.lastPersona)
	assert.Equal(t, 5, p.lastN)
	assert.Len(t, body["data"], 5)

	_, _ = get(t, newTestServer(p), "/v1/best-time")
	assert.Equal(t, defaultBestTimeCount, p.lastN)
}

func TestBestTime_BadRequests(t *testing.T) {
	for _, target := range []string{
		"/v1/best-time?n=0",
		"/v1/best-time?n=13",
		"/v1/best-time?n=x",
		"/v1/best-time?persona=pirate",
	} {
		rec, _ := get(t, newTestServer(&fakePlanner{}), target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestPersonas(t *testing.T) {
	rec, body := get(t, newTestServer(&fakePlanner{}), "/v1/personas")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["count"])
}

func TestActivities(t *testing.T) {
	s := newTestServer(&fakePlanner{})

	rec, body := get(t, s, "/v1/activities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)

	rec, body = get(t, s, "/v1/activities/beach")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Main Beach", body["data"].(map[string]any)["title"])

	rec, _ = get(t, s, "/v1/activities/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakePlanner{})
	_, _ = get(t, s, "/health")

	rec, _ := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coastal_http_requests_total")
}
