// Package besttime scores calendar months for a visitor persona from
// historical climate aggregates.
package besttime

import (
	"math"
	"sort"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

const (
	IdealTempF  = 75.0
	MaxRainDays = 15.0
)

// crowdComfort maps crowd level to how pleasant the month feels, 0.2 to 1.0
var crowdComfort = map[models.CrowdLevel]float64{
	models.CrowdLow:      1.0,
	models.CrowdMedium:   0.7,
	models.CrowdHigh:     0.45,
	models.CrowdVeryHigh: 0.2,
}

// Signals are the four normalized [0,1] inputs to a month score
type Signals struct {
	Warmth        float64 `json:"warmth"`
	Dryness       float64 `json:"dryness"`
	CrowdComfort  float64 `json:"crowd_comfort"`
	Affordability float64 `json:"affordability"`
}

// MonthScore is a month with its persona score
type MonthScore struct {
	Month   models.MonthProfile `json:"month"`
	Score   int                 `json:"score"`
	Signals Signals             `json:"signals"`
}

// SignalsFor normalizes a month's climate aggregates. Affordability has no
// data source of its own and follows crowd comfort, on the assumption that
// quieter months are cheaper.
func SignalsFor(m models.MonthProfile) Signals {
	comfort, ok := crowdComfort[m.CrowdLevel]
	if !ok {
		comfort = crowdComfort[models.CrowdMedium]
	}
	return Signals{
		Warmth:        clamp01(m.AvgHighTemp / IdealTempF),
		Dryness:       clamp01(1 - m.RainDays/MaxRainDays),
		CrowdComfort:  comfort,
		Affordability: comfort,
	}
}

// ScoreMonthForPersona weights the month's signals by the persona's
// priorities and scales the average to 0-100.
func ScoreMonthForPersona(m models.MonthProfile, p models.VisitorPersona) int {
	return score(SignalsFor(m), p)
}

func score(s Signals, p models.VisitorPersona) int {
	sum := s.Warmth*p.WarmthWeight +
		s.Dryness*p.DrynessWeight +
		s.CrowdComfort*p.FewerCrowdsWeight +
		s.Affordability*p.AffordabilityWeight
	v := math.Round(100 * sum / 4)
	return int(math.Max(0, math.Min(100, v)))
}

// RankMonths scores every month for the persona, best first. Equal scores
// fall back to the month's general score, then calendar order.
func RankMonths(months []models.MonthProfile, p models.VisitorPersona) []MonthScore {
	out := make([]MonthScore, 0, len(months))
	for _, m := range months {
		s := SignalsFor(m)
		out = append(out, MonthScore{Month: m, Score: score(s, p), Signals: s})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Month.GeneralScore != b.Month.GeneralScore {
			return a.Month.GeneralScore > b.Month.GeneralScore
		}
		return a.Month.Month < b.Month.Month
	})
	return out
}

// TopMonths returns the n best months for the persona
func TopMonths(months []models.MonthProfile, p models.VisitorPersona, n int) []MonthScore {
	if n <= 0 {
		return []MonthScore{}
	}
	ranked := RankMonths(months, p)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
