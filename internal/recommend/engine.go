package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/scoring"
	"github.com/ngmaloney/coastal-activities/internal/tides"
	"github.com/ngmaloney/coastal-activities/internal/weather"
)

// Blend weights when an activity has both scores
const (
	WeatherWeight = 0.7
	TideWeight    = 0.3
)

// Score rates one activity. tide may be nil when the tide is unknown.
func Score(a models.Activity, c weather.Classification, tide *tides.State) ScoredActivity {
	ws := scoring.ScoreWeather(a, c)
	ts := scoring.ScoreTide(a, tide)

	combined := ws.Score
	reason := ws.Reason
	if ts != nil {
		combined = int(math.Round(WeatherWeight*float64(ws.Score) + TideWeight*float64(*ts)))
		reason = fmt.Sprintf("%s; %s tide at %.1f ft", reason, tide.Direction, tide.Height)
	}

	return ScoredActivity{
		Activity:     a,
		WeatherScore: ws.Score,
		TideScore:    ts,
		Combined:     combined,
		Tier:         TierFor(combined),
		Reason:       reason,
	}
}

// Rank scores every activity and buckets them by tier. Excluded activities
// are dropped. Within a tier items are ordered by combined score, then by
// activity ID so equal scores always come out in the same order.
func Rank(activities []models.Activity, c weather.Classification, tide *tides.State) Recommendations {
	scored := make([]ScoredActivity, 0, len(activities))
	for _, a := range activities {
		scored = append(scored, Score(a, c, tide))
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Combined != scored[j].Combined {
			return scored[i].Combined > scored[j].Combined
		}
		return scored[i].Activity.ID < scored[j].Activity.ID
	})

	var recs Recommendations
	for _, s := range scored {
		recs.add(s)
	}
	return recs
}

// RankAt interpolates the tide at the given instant before ranking. A
// missing or unusable series ranks on weather alone.
func RankAt(activities []models.Activity, c weather.Classification, series *models.TideSeries, at time.Time) Recommendations {
	var tide *tides.State
	if series != nil {
		if s, err := tides.Interpolate(series, at); err == nil {
			tide = &s
		}
	}
	return Rank(activities, c, tide)
}
