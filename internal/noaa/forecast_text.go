package noaa

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

var windNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseShortForecast maps NWS short forecast text ("Patchy Fog",
// "Mostly Sunny", "Chance Rain Showers") to a condition code and an
// approximate cloud cover percentage.
func ParseShortForecast(text string) (models.ConditionCode, float64) {
	t := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("thunderstorm", "t-storm"):
		return models.ConditionThunderstorm, 100
	case has("snow", "sleet", "flurries", "wintry"):
		return models.ConditionSnow, 100
	case has("drizzle"):
		return models.ConditionDrizzle, 95
	case has("rain", "showers"):
		return models.ConditionRain, 95
	case has("fog"):
		return models.ConditionFog, 100
	case has("haze", "smoke"):
		return models.ConditionHaze, 40
	case has("mist"):
		return models.ConditionMist, 80
	case has("mostly cloudy", "considerable cloud"):
		return models.ConditionClouds, 80
	case has("partly sunny", "partly cloudy", "increasing clouds", "decreasing clouds"):
		return models.ConditionClouds, 50
	case has("overcast", "cloudy"):
		return models.ConditionClouds, 95
	case has("mostly sunny", "mostly clear"):
		return models.ConditionClear, 20
	}
	return models.ConditionClear, 5
}

// ParseWindSpeed reads the strongest figure from "10 mph" or "5 to 15 mph"
func ParseWindSpeed(s string) float64 {
	var best float64
	for _, m := range windNumber.FindAllString(s, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > best {
			best = v
		}
	}
	return best
}

// FeelsLike returns the NWS wind chill below 50°F (with wind above 3 mph),
// the heat index above 80°F, and the air temperature otherwise.
func FeelsLike(tempF, windMPH, humidity float64) float64 {
	switch {
	case tempF <= 50 && windMPH > 3:
		v := math.Pow(windMPH, 0.16)
		return math.Round(35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v)
	case tempF >= 80 && humidity > 0:
		t, rh := tempF, humidity
		hi := -42.379 + 2.04901523*t + 10.14333127*rh - 0.22475541*t*rh -
			0.00683783*t*t - 0.05481717*rh*rh + 0.00122874*t*t*rh +
			0.00085282*t*rh*rh - 0.00000199*t*t*rh*rh
		return math.Round(hi)
	}
	return tempF
}
