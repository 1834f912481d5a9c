package noaa

import (
	"context"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

// WeatherClient defines the interface for fetching weather data from NOAA
type WeatherClient interface {
	// GetReadingAt retrieves the forecast hour covering at for a location.
	// A zero at means now.
	GetReadingAt(ctx context.Context, lat, lon float64, at time.Time) (*models.WeatherReading, error)
}

// TideClient defines the interface for fetching tide data from NOAA CO-OPS
type TideClient interface {
	// GetTidePredictions retrieves high/low predictions between two dates (inclusive)
	GetTidePredictions(ctx context.Context, stationID string, startDate, endDate time.Time) (*models.TideSeries, error)
}
