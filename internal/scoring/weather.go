// Package scoring rates a single activity against current conditions.
// Every score is an integer in [0, 100].
package scoring

import (
	"fmt"

	"github.com/ngmaloney/coastal-activities/internal/models"
	"github.com/ngmaloney/coastal-activities/internal/weather"
)

// NeutralScore is given when nothing about the activity relates to the weather
const NeutralScore = 50

// Graded penalty by group distance between the weather an activity declares
// it suits and the current weather
var distanceScores = [...]int{80, 65, 45, 20}

// WeatherScore is a weather score with the reason it was given
type WeatherScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ScoreWeather rates how well an activity fits the classified weather.
// Declared suitability tags are consulted first. When none of them resolve
// to a known category the indoor/outdoor flags decide.
func ScoreWeather(a models.Activity, c weather.Classification) WeatherScore {
	if len(a.WeatherSuitability) > 0 {
		for _, tag := range a.WeatherSuitability {
			if c.Favors(tag) {
				return WeatherScore{
					Score:  100,
					Reason: fmt.Sprintf("Great pick for %s weather", c.DisplayName),
				}
			}
		}
		if best, closest, ok := nearestCategory(a.WeatherSuitability, c); ok {
			suited := weather.NewClassification(closest, "").DisplayName
			return WeatherScore{
				Score:  distanceScores[best],
				Reason: fmt.Sprintf("Best in %s weather, today is %s", suited, c.DisplayName),
			}
		}
	}
	return scoreBySetting(a, c)
}

// nearestCategory returns the smallest group distance between the current
// category and any category the tags resolve to.
func nearestCategory(tags []string, c weather.Classification) (int, weather.Category, bool) {
	best := -1
	var closest weather.Category
	for _, tag := range tags {
		for _, cat := range weather.CategoriesFor(tag) {
			d := int(cat.Group()) - int(c.Group())
			if d < 0 {
				d = -d
			}
			if best < 0 || d < best {
				best, closest = d, cat
			}
		}
	}
	if best < 0 {
		return 0, "", false
	}
	if best >= len(distanceScores) {
		best = len(distanceScores) - 1
	}
	return best, closest, true
}

func scoreBySetting(a models.Activity, c weather.Classification) WeatherScore {
	switch {
	case c.Group() == weather.GroupWet:
		switch {
		case a.Setting == models.SettingIndoor:
			return WeatherScore{90, "Indoors, so the rain won't matter"}
		case a.RainOK:
			return WeatherScore{80, "Works fine in the rain"}
		case a.Setting == models.SettingMixed:
			return WeatherScore{55, "Partly covered, expect to get a little wet"}
		case a.Setting == models.SettingOutdoor:
			return WeatherScore{25, "Outdoors in the rain"}
		}
	case c.Group() == weather.GroupSunny || c.Category == weather.PartlyCloudy:
		switch a.Setting {
		case models.SettingOutdoor:
			return WeatherScore{90, fmt.Sprintf("Outdoors on a %s day", c.DisplayName)}
		case models.SettingMixed:
			return WeatherScore{80, "Enjoy it inside and out"}
		case models.SettingIndoor:
			return WeatherScore{50, "Indoors on a nice day"}
		}
	case c.Group() == weather.GroupShelter:
		if a.Setting == models.SettingIndoor {
			return WeatherScore{80, fmt.Sprintf("A sheltered option for %s weather", c.DisplayName)}
		}
	}
	return WeatherScore{NeutralScore, "Not particularly weather dependent"}
}
