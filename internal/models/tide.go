package models

import (
	"errors"
	"fmt"
	"time"
)

// TideType represents whether a tide is high or low
type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// String returns the display label for the tide type
func (t TideType) String() string {
	if t == TideHigh {
		return "High"
	}
	return "Low"
}

// TideEvent represents a single high or low tide prediction
type TideEvent struct {
	Time   time.Time `json:"time"`
	Type   TideType  `json:"type"`
	Height float64   `json:"height"` // feet relative to MLLW (Mean Lower Low Water)
}

// TideSeries contains tide predictions for a station
type TideSeries struct {
	StationID   string      `json:"station_id"`
	StationName string      `json:"station_name"`
	Events      []TideEvent `json:"events"` // Ordered by time
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validation errors returned by TideSeries.Validate
var (
	ErrTooFewEvents   = errors.New("tide series needs at least 2 events")
	ErrUnsortedEvents = errors.New("tide events are not in ascending time order")
	ErrNotAlternating = errors.New("tide events do not alternate high/low")
)

// Validate checks the series invariants: at least two events, strictly
// ascending times, alternating high/low.
func (ts *TideSeries) Validate() error {
	if ts == nil || len(ts.Events) < 2 {
		return ErrTooFewEvents
	}
	for i := 1; i < len(ts.Events); i++ {
		prev, cur := ts.Events[i-1], ts.Events[i]
		if !cur.Time.After(prev.Time) {
			return fmt.Errorf("%w: event %d at %s", ErrUnsortedEvents, i, cur.Time.Format(time.RFC3339))
		}
		if cur.Type == prev.Type {
			return fmt.Errorf("%w: events %d and %d are both %s", ErrNotAlternating, i-1, i, cur.Type)
		}
	}
	return nil
}

// EventsForDay returns tide events for a specific date
func (ts *TideSeries) EventsForDay(date time.Time) []TideEvent {
	var events []TideEvent
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	for _, event := range ts.Events {
		if !event.Time.Before(startOfDay) && event.Time.Before(endOfDay) {
			events = append(events, event)
		}
	}
	return events
}
