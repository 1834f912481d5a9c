package noaa

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/provider"
)

// ErrNoPredictions is returned when CO-OPS answers without any usable events
var ErrNoPredictions = errors.New("no tide predictions returned")

// NOAATideClient implements TideClient using the NOAA CO-OPS API
type NOAATideClient struct {
	baseURL string
	client  *provider.Client
	now     func() time.Time
}

// NewTideClient creates a new NOAA tide client
func NewTideClient(opts provider.Options) *NOAATideClient {
	return &NOAATideClient{
		baseURL: "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		client:  provider.New("noaa-tides", opts),
		now:     time.Now,
	}
}

// GetTidePredictions retrieves high/low predictions for a date range.
// Times are requested in GMT so the parsed instants are unambiguous.
func (c *NOAATideClient) GetTidePredictions(ctx context.Context, stationID string, startDate, endDate time.Time) (*models.TideSeries, error) {
	params := url.Values{}
	params.Add("begin_date", startDate.UTC().Format("20060102"))
	params.Add("end_date", endDate.UTC().Format("20060102"))
	params.Add("station", stationID)
	params.Add("product", "predictions")
	params.Add("datum", "MLLW")    // Mean Lower Low Water
	params.Add("time_zone", "gmt") // parsed as UTC below
	params.Add("interval", "hilo") // High and low tides only
	params.Add("units", "english") // Feet
	params.Add("format", "json")
	params.Add("application", "CoastalActivities")

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	var tideResp tideResponse
	if err := c.client.GetJSON(ctx, requestURL, &tideResp); err != nil {
		return nil, fmt.Errorf("failed to fetch tide data: %w", err)
	}
	if tideResp.Error != nil {
		return nil, fmt.Errorf("station %s: %s", stationID, tideResp.Error.Message)
	}

	series := &models.TideSeries{
		StationID:   stationID,
		StationName: tideResp.Metadata.Name,
		Events:      make([]models.TideEvent, 0, len(tideResp.Predictions)),
		UpdatedAt:   c.now(),
	}

	for _, pred := range tideResp.Predictions {
		eventTime, err := time.ParseInLocation("2006-01-02 15:04", pred.Time, time.UTC)
		if err != nil {
			continue // Skip invalid times
		}

		var tideType models.TideType
		switch pred.Type {
		case "H", "HH":
			tideType = models.TideHigh
		case "L", "LL":
			tideType = models.TideLow
		default:
			continue
		}

		height, err := strconv.ParseFloat(pred.Height, 64)
		if err != nil {
			continue
		}

		series.Events = append(series.Events, models.TideEvent{
			Time:   eventTime,
			Type:   tideType,
			Height: height,
		})
	}

	if len(series.Events) == 0 {
		return nil, fmt.Errorf("%w for station %s", ErrNoPredictions, stationID)
	}
	sort.Slice(series.Events, func(i, j int) bool {
		return series.Events[i].Time.Before(series.Events[j].Time)
	})

	return series, nil
}

// Internal types for NOAA CO-OPS API responses

type tideResponse struct {
	Metadata struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Lat  string `json:"lat"`
		Lon  string `json:"lon"`
	} `json:"metadata"`
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"`    // NOAA returns this as string
		Type   string `json:"type"` // "H" or "L"
	} `json:"predictions"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
