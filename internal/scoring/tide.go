package scoring

import (
	"math"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/tides"
)

// Tide scoring constants
const (
	ExtremeBonus         = 20
	ExtremeWindowMinutes = 90
	MidTideHeight        = 3.0  // feet
	PenaltyPerFoot       = 15.0 // outside the optimal range
	TurnPeakMinutes      = 30
	TurnWindowMinutes    = 60
	TurnPeakScore        = 95.0
	TurnBaseScore        = 45.0
	WrongDirectionScore  = 40.0
)

type tideCurve func(s tides.State) float64

// tideCurves holds one scoring curve per tide-sensitive preference
var tideCurves = map[models.TidePreference]tideCurve{
	models.PreferLow:        scoreLow,
	models.PreferHigh:       scoreHigh,
	models.PreferMid:        scoreMid,
	models.PreferRising:     directionCurve(tides.Rising),
	models.PreferFalling:    directionCurve(tides.Falling),
	models.PreferTideChange: scoreTideChange,
}

// ScoreTide rates an activity against the tide state. It returns nil when
// tide is irrelevant to the activity or no tide state is known.
func ScoreTide(a models.Activity, s *tides.State) *int {
	if s == nil || !a.TidePreference.IsTideSensitive() {
		return nil
	}
	curve, ok := tideCurves[a.TidePreference]
	if !ok {
		return nil
	}

	score := curve(*s) - rangePenalty(a.OptimalTide, s.Height)
	result := clampScore(score)
	return &result
}

func scoreLow(s tides.State) float64 {
	var score float64
	switch h := s.Height; {
	case h <= 1.0:
		score = 100
	case h <= 2.0:
		score = 85
	case h <= 3.5:
		score = 60
	default:
		score = 30
	}
	if extremeDueSoon(s, models.TideLow) {
		score += ExtremeBonus
	}
	return math.Min(score, 100)
}

func scoreHigh(s tides.State) float64 {
	var score float64
	switch h := s.Height; {
	case h >= 5.0:
		score = 100
	case h >= 4.0:
		score = 85
	case h >= 2.5:
		score = 60
	default:
		score = 30
	}
	if extremeDueSoon(s, models.TideHigh) {
		score += ExtremeBonus
	}
	return math.Min(score, 100)
}

func scoreMid(s tides.State) float64 {
	switch d := math.Abs(s.Height - MidTideHeight); {
	case d <= 0.75:
		return 100
	case d <= 1.5:
		return 85
	case d <= 2.5:
		return 60
	}
	return 30
}

func directionCurve(want tides.Direction) tideCurve {
	return func(s tides.State) float64 {
		if s.Direction != want {
			return WrongDirectionScore
		}
		switch m := s.MinutesUntilNext; {
		case m >= 180:
			return 90
		case m >= 90:
			return 75
		}
		return 60
	}
}

func scoreTideChange(s tides.State) float64 {
	m := float64(s.MinutesToNearestTurn())
	switch {
	case m <= TurnPeakMinutes:
		return TurnPeakScore
	case m <= TurnWindowMinutes:
		frac := (m - TurnPeakMinutes) / (TurnWindowMinutes - TurnPeakMinutes)
		return TurnPeakScore - frac*(TurnPeakScore-TurnBaseScore)
	}
	return TurnBaseScore
}

func extremeDueSoon(s tides.State, t models.TideType) bool {
	return s.Next.Type == t && s.MinutesUntilNext <= ExtremeWindowMinutes
}

func rangePenalty(r *models.OptimalTideRange, h float64) float64 {
	if r == nil {
		return 0
	}
	var feet float64
	if r.Min != nil && h < *r.Min {
		feet = *r.Min - h
	}
	if r.Max != nil && h > *r.Max {
		feet = h - *r.Max
	}
	return feet * PenaltyPerFoot
}

func clampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
