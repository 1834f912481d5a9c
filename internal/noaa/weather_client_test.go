package noaa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/provider"
)

const hourlyForecastJSON = `{
  "properties": {
    "periods": [
      {
        "number": 1,
        "startTime": "2025-06-14T09:00:00-07:00",
        "endTime": "2025-06-14T10:00:00-07:00",
        "isDaytime": true,
        "temperature": 64,
        "temperatureUnit": "F",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": 2},
        "relativeHumidity": {"unitCode": "wmoUnit:percent", "value": 81},
        "windSpeed": "5 mph",
        "windDirection": "W",
        "shortForecast": "Patchy Fog"
      },
      {
        "number": 2,
        "startTime": "2025-06-14T10:00:00-07:00",
        "endTime": "2025-06-14T11:00:00-07:00",
        "isDaytime": true,
        "temperature": 68,
        "temperatureUnit": "F",
        "probabilityOfPrecipitation": {"unitCode": "wmoUnit:percent", "value": null},
        "relativeHumidity": {"unitCode": "wmoUnit:percent", "value": 70},
        "windSpeed": "5 to 10 mph",
        "windDirection": "WNW",
        "shortForecast": "Mostly Sunny"
      }
    ]
  }
}`

func testOptions() provider.Options {
	return provider.Options{
		UserAgent:       "coastal-test",
		Timeout:         2 * time.Second,
		BreakerFailures: 3,
		BreakerCooldown: time.Minute,
	}
}

func newWeatherServer(t *testing.T, hourlyLink bool) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header not set")
		}
		if !strings.HasSuffix(r.URL.Path, "/36.9741,-122.0308") {
			t.Errorf("unexpected point path %s", r.URL.Path)
		}
		link := ""
		if hourlyLink {
			link = server.URL + "/gridpoints/MTR/90,70/forecast/hourly"
		}
		w.Header().Set("Content-Type", "application/geo+json")
		fmt.Fprintf(w, `{"properties":{"gridId":"MTR","gridX":90,"gridY":70,"forecastHourly":%q}}`, link)
	})
	mux.HandleFunc("/gridpoints/MTR/90,70/forecast/hourly", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hourlyForecastJSON))
	})
	server = httptest.NewServer(mux)
	return server
}

func TestNewWeatherClient(t *testing.T) {
	client := NewWeatherClient(testOptions())

	if client == nil {
		t.Fatal("NewWeatherClient() returned nil")
	}
	if client.baseURL != "https://api.weather.gov" {
		t.Errorf("baseURL = %s, want https://api.weather.gov", client.baseURL)
	}
	if client.client.Name() != "noaa-weather" {
		t.Errorf("provider name = %s, want noaa-weather", client.client.Name())
	}
}

func TestNOAAWeatherClient_GetReadingAt(t *testing.T) {
	for _, hourlyLink := range []bool{true, false} {
		t.Run(fmt.Sprintf("hourlyLink=%v", hourlyLink), func(t *testing.T) {
			server := newWeatherServer(t, hourlyLink)
			defer server.Close()

			client := NewWeatherClient(testOptions())
			client.baseURL = server.URL
			at := time.Date(2025, 6, 14, 17, 30, 0, 0, time.UTC) // 10:30 PDT

			reading, err := client.GetReadingAt(context.Background(), 36.9741, -122.0308, at)
			if err != nil {
				t.Fatalf("GetReadingAt() error = %v", err)
			}

			if reading.Temperature != 68 {
				t.Errorf("Temperature = %v, want 68", reading.Temperature)
			}
			if reading.Condition != models.ConditionClear {
				t.Errorf("Condition = %s, want Clear", reading.Condition)
			}
			if reading.CloudCover != 20 {
				t.Errorf("CloudCover = %v, want 20", reading.CloudCover)
			}
			if reading.WindSpeed != 10 {
				t.Errorf("WindSpeed = %v, want 10", reading.WindSpeed)
			}
			if reading.PrecipProbability != 0 {
				t.Errorf("PrecipProbability = %v, want 0", reading.PrecipProbability)
			}
			if reading.Humidity != 70 {
				t.Errorf("Humidity = %v, want 70", reading.Humidity)
			}
			if reading.Visibility != nil {
				t.Errorf("Visibility = %v, want nil", *reading.Visibility)
			}
			if reading.Description != "Mostly Sunny" {
				t.Errorf("Description = %q", reading.Description)
			}
		})
	}
}

func TestNOAAWeatherClient_ReadingFollowsRequestedHour(t *testing.T) {
	server := newWeatherServer(t, true)
	defer server.Close()

	client := NewWeatherClient(testOptions())
	client.baseURL = server.URL
	client.now = func() time.Time {
		return time.Date(2025, 6, 14, 17, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		at       time.Time
		wantTemp float64
	}{
		{"zero time uses now", time.Time{}, 68},
		{"explicit earlier hour", time.Date(2025, 6, 14, 16, 30, 0, 0, time.UTC), 64},
		{"explicit later hour", time.Date(2025, 6, 14, 17, 59, 0, 0, time.UTC), 68},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := client.GetReadingAt(context.Background(), 36.9741, -122.0308, tt.at)
			if err != nil {
				t.Fatalf("GetReadingAt() error = %v", err)
			}
			if reading.Temperature != tt.wantTemp {
				t.Errorf("Temperature = %v, want %v", reading.Temperature, tt.wantTemp)
			}
		})
	}
}

func TestNOAAWeatherClient_FirstPeriodBeforeForecastStarts(t *testing.T) {
	server := newWeatherServer(t, true)
	defer server.Close()

	client := NewWeatherClient(testOptions())
	client.baseURL = server.URL
	before := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC) // before first period

	reading, err := client.GetReadingAt(context.Background(), 36.9741, -122.0308, before)
	if err != nil {
		t.Fatalf("GetReadingAt() error = %v", err)
	}
	if reading.Condition != models.ConditionFog {
		t.Errorf("Condition = %s, want Fog", reading.Condition)
	}
	if reading.PrecipProbability != 2 {
		t.Errorf("PrecipProbability = %v, want 2", reading.PrecipProbability)
	}
}

func TestNOAAWeatherClient_PointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"title":"Data Unavailable For Requested Point"}`))
	}))
	defer server.Close()

	client := NewWeatherClient(testOptions())
	client.baseURL = server.URL

	_, err := client.GetReadingAt(context.Background(), 0, 0, time.Time{})
	if err == nil {
		t.Fatal("expected error for unsupported point")
	}
	if !strings.Contains(err.Error(), "grid point") {
		t.Errorf("error = %v, want grid point context", err)
	}
}

func TestNOAAWeatherClient_NoPeriods(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/points/") {
			fmt.Fprintf(w, `{"properties":{"forecastHourly":%q}}`, server.URL+"/hourly")
			return
		}
		w.Write([]byte(`{"properties":{"periods":[]}}`))
	}))
	defer server.Close()

	client := NewWeatherClient(testOptions())
	client.baseURL = server.URL

	if _, err := client.GetReadingAt(context.Background(), 36.9741, -122.0308, time.Time{}); err == nil {
		t.Fatal("expected error for empty forecast")
	}
}

func TestForecastPeriod_CelsiusConverted(t *testing.T) {
	p := forecastPeriod{Temperature: 20, TemperatureUnit: "C", ShortForecast: "Sunny"}
	r := p.reading()
	if r.Temperature != 68 {
		t.Errorf("Temperature = %v, want 68", r.Temperature)
	}
}
