package noaa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/provider"
)

// NOAAWeatherClient implements WeatherClient using the NOAA Weather API
type NOAAWeatherClient struct {
	baseURL string
	client  *provider.Client
	now     func() time.Time
}

// NewWeatherClient creates a new NOAA weather client
func NewWeatherClient(opts provider.Options) *NOAAWeatherClient {
	return &NOAAWeatherClient{
		baseURL: "https://api.weather.gov",
		client:  provider.New("noaa-weather", opts),
		now:     time.Now,
	}
}

// GetReadingAt resolves the forecast grid for the point and converts the
// hourly period covering at into a reading.
func (c *NOAAWeatherClient) GetReadingAt(ctx context.Context, lat, lon float64, at time.Time) (*models.WeatherReading, error) {
	if at.IsZero() {
		at = c.now()
	}

	point, err := c.getGridPoint(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to get grid point: %w", err)
	}

	forecastURL := point.HourlyURL
	if forecastURL == "" {
		forecastURL = fmt.Sprintf("%s/gridpoints/%s/%d,%d/forecast/hourly",
			c.baseURL, point.GridID, point.GridX, point.GridY)
	}

	var forecastResp forecastResponse
	if err := c.client.GetJSON(ctx, forecastURL, &forecastResp); err != nil {
		return nil, fmt.Errorf("failed to fetch hourly forecast: %w", err)
	}

	period, err := periodAt(forecastResp.Properties.Periods, at)
	if err != nil {
		return nil, err
	}
	return period.reading(), nil
}

// getGridPoint gets the NOAA grid point for a lat/lon
func (c *NOAAWeatherClient) getGridPoint(ctx context.Context, lat, lon float64) (*gridPoint, error) {
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)

	var pointResp pointResponse
	if err := c.client.GetJSON(ctx, url, &pointResp); err != nil {
		return nil, err
	}

	return &gridPoint{
		GridID:    pointResp.Properties.GridID,
		GridX:     pointResp.Properties.GridX,
		GridY:     pointResp.Properties.GridY,
		HourlyURL: pointResp.Properties.ForecastHourly,
	}, nil
}

// periodAt picks the period containing at, or the first one if the
// forecast starts later.
func periodAt(periods []forecastPeriod, at time.Time) (*forecastPeriod, error) {
	if len(periods) == 0 {
		return nil, errors.New("forecast has no periods")
	}
	for i := range periods {
		p := &periods[i]
		start, err1 := time.Parse(time.RFC3339, p.StartTime)
		end, err2 := time.Parse(time.RFC3339, p.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		if !at.Before(start) && at.Before(end) {
			return p, nil
		}
	}
	return &periods[0], nil
}

func (p forecastPeriod) reading() *models.WeatherReading {
	condition, cloud := ParseShortForecast(p.ShortForecast)

	temp := float64(p.Temperature)
	if p.TemperatureUnit == "C" {
		temp = temp*9/5 + 32
	}
	wind := ParseWindSpeed(p.WindSpeed)
	observed, _ := time.Parse(time.RFC3339, p.StartTime)

	return &models.WeatherReading{
		Temperature:       temp,
		FeelsLike:         FeelsLike(temp, wind, p.RelativeHumidity.Value),
		Condition:         condition,
		Description:       p.ShortForecast,
		Humidity:          p.RelativeHumidity.Value,
		WindSpeed:         wind,
		PrecipProbability: p.ProbabilityOfPrecipitation.Value,
		CloudCover:        cloud,
		ObservedAt:        observed,
	}
}

// Internal types for NOAA API responses

type gridPoint struct {
	GridID    string
	GridX     int
	GridY     int
	HourlyURL string
}

type pointResponse struct {
	Properties struct {
		GridID         string `json:"gridId"`
		GridX          int    `json:"gridX"`
		GridY          int    `json:"gridY"`
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type quantity struct {
	UnitCode string  `json:"unitCode"`
	Value    float64 `json:"value"` // null decodes as 0
}

type forecastPeriod struct {
	Number                     int      `json:"number"`
	Name                       string   `json:"name"`
	StartTime                  string   `json:"startTime"`
	EndTime                    string   `json:"endTime"`
	IsDaytime                  bool     `json:"isDaytime"`
	Temperature                int      `json:"temperature"`
	TemperatureUnit            string   `json:"temperatureUnit"`
	ProbabilityOfPrecipitation quantity `json:"probabilityOfPrecipitation"`
	RelativeHumidity           quantity `json:"relativeHumidity"`
	WindSpeed                  string   `json:"windSpeed"`
	WindDirection              string   `json:"windDirection"`
	ShortForecast              string   `json:"shortForecast"`
	DetailedForecast           string   `json:"detailedForecast"`
}

type forecastResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}
