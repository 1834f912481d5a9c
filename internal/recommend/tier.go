// Package recommend ranks a catalog of activities against current
// conditions and partitions the result into tiers.
package recommend

import "github.com/ngmaloney/coastal-activities/internal/models"

// Tier is a recommendation strength bucket
type Tier string

const (
	TierPerfect    Tier = "perfect"
	TierGreat      Tier = "great"
	TierGood       Tier = "good"
	TierAcceptable Tier = "acceptable"
	TierExcluded   Tier = "excluded"
)

// Lower bounds (inclusive) of each shown tier
const (
	PerfectMin    = 90
	GreatMin      = 75
	GoodMin       = 60
	AcceptableMin = 40
)

// TierFor maps a combined score to its tier
func TierFor(score int) Tier {
	switch {
	case score >= PerfectMin:
		return TierPerfect
	case score >= GreatMin:
		return TierGreat
	case score >= GoodMin:
		return TierGood
	case score >= AcceptableMin:
		return TierAcceptable
	}
	return TierExcluded
}

// Label returns the display name of the tier
func (t Tier) Label() string {
	switch t {
	case TierPerfect:
		return "Perfect"
	case TierGreat:
		return "Great"
	case TierGood:
		return "Good"
	case TierAcceptable:
		return "Acceptable"
	}
	return "Excluded"
}

// ScoredActivity is an activity with its scores for one request
type ScoredActivity struct {
	Activity     models.Activity `json:"activity"`
	WeatherScore int             `json:"weather_score"`
	TideScore    *int            `json:"tide_score,omitempty"`
	Combined     int             `json:"combined_score"`
	Tier         Tier            `json:"tier"`
	Reason       string          `json:"reason"`
}

// Recommendations holds the shown tiers, each ordered best first
type Recommendations struct {
	Perfect    []ScoredActivity `json:"perfect"`
	Great      []ScoredActivity `json:"great"`
	Good       []ScoredActivity `json:"good"`
	Acceptable []ScoredActivity `json:"acceptable"`
}

// Tiers returns the shown tiers in order, paired with their items
func (r Recommendations) Tiers() []TierGroup {
	return []TierGroup{
		{Tier: TierPerfect, Items: r.Perfect},
		{Tier: TierGreat, Items: r.Great},
		{Tier: TierGood, Items: r.Good},
		{Tier: TierAcceptable, Items: r.Acceptable},
	}
}

// Len counts every shown activity
func (r Recommendations) Len() int {
	return len(r.Perfect) + len(r.Great) + len(r.Good) + len(r.Acceptable)
}

// TierGroup is one tier and its ordered members
type TierGroup struct {
	Tier  Tier
	Items []ScoredActivity
}

func (r *Recommendations) add(s ScoredActivity) {
	switch s.Tier {
	case TierPerfect:
		r.Perfect = append(r.Perfect, s)
	case TierGreat:
		r.Great = append(r.Great, s)
	case TierGood:
		r.Good = append(r.Good, s)
	case TierAcceptable:
		r.Acceptable = append(r.Acceptable, s)
	}
}
