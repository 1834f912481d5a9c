// Package tides derives the tide state at an instant from a series of
// high/low predictions.
//
// Heights between two predictions are interpolated linearly by elapsed
// time. Real tide curves are closer to a cosine, so the value is an
// approximation good enough to rank activities, not for navigation.
package tides

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

// ErrTideUnknown is returned when no tide state can be derived
var ErrTideUnknown = errors.New("tide unknown")

// Direction is the current movement of the water
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
)

// State is the interpolated tide at one instant
type State struct {
	At                   time.Time        `json:"at"`
	Height               float64          `json:"height"` // feet, MLLW
	Direction            Direction        `json:"direction"`
	Previous             models.TideEvent `json:"previous"`
	Next                 models.TideEvent `json:"next"`
	MinutesUntilNext     int              `json:"minutes_until_next"`
	MinutesSincePrevious int              `json:"minutes_since_previous"`
}

// MinutesToNearestTurn returns the distance in minutes to whichever turning
// point (previous or next extreme) is closer.
func (s State) MinutesToNearestTurn() int {
	if s.MinutesSincePrevious < s.MinutesUntilNext {
		return s.MinutesSincePrevious
	}
	return s.MinutesUntilNext
}

// Interpolate finds the predictions bracketing at (previous <= at < next)
// and returns the linear height and direction between them.
func Interpolate(series *models.TideSeries, at time.Time) (State, error) {
	if err := series.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrTideUnknown, err)
	}

	events := series.Events
	first, last := events[0], events[len(events)-1]
	if at.Before(first.Time) || !at.Before(last.Time) {
		return State{}, fmt.Errorf("%w: %s outside %s to %s", ErrTideUnknown,
			at.Format(time.RFC3339), first.Time.Format(time.RFC3339), last.Time.Format(time.RFC3339))
	}

	// events are validated ascending, so the first event after at closes the bracket
	i := 1
	for !events[i].Time.After(at) {
		i++
	}
	prev, next := events[i-1], events[i]

	span := next.Time.Sub(prev.Time)
	elapsed := at.Sub(prev.Time)
	frac := float64(elapsed) / float64(span)

	dir := Falling
	if next.Type == models.TideHigh {
		dir = Rising
	}

	return State{
		At:                   at,
		Height:               prev.Height + (next.Height-prev.Height)*frac,
		Direction:            dir,
		Previous:             prev,
		Next:                 next,
		MinutesUntilNext:     int(math.Round(next.Time.Sub(at).Minutes())),
		MinutesSincePrevious: int(math.Round(elapsed.Minutes())),
	}, nil
}
