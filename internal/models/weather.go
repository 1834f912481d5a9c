package models

import "time"

// ConditionCode is the coarse condition reported by a weather provider
type ConditionCode string

const (
	ConditionClear        ConditionCode = "Clear"
	ConditionClouds       ConditionCode = "Clouds"
	ConditionRain         ConditionCode = "Rain"
	ConditionDrizzle      ConditionCode = "Drizzle"
	ConditionThunderstorm ConditionCode = "Thunderstorm"
	ConditionSnow         ConditionCode = "Snow"
	ConditionMist         ConditionCode = "Mist"
	ConditionFog          ConditionCode = "Fog"
	ConditionHaze         ConditionCode = "Haze"
)

// WeatherReading is a point-in-time observation, already normalized by the provider.
// All temperatures are Fahrenheit.
type WeatherReading struct {
	Temperature       float64       `json:"temperature"`
	FeelsLike         float64       `json:"feels_like"`
	Condition         ConditionCode `json:"condition"`
	Description       string        `json:"description"`
	Humidity          float64       `json:"humidity"`             // percent
	WindSpeed         float64       `json:"wind_speed"`           // mph
	Precipitation     float64       `json:"precipitation"`        // inches
	PrecipProbability float64       `json:"precip_probability"`   // percent
	Visibility        *float64      `json:"visibility,omitempty"` // miles, nil when not reported
	CloudCover        float64       `json:"cloud_cover"`          // percent
	ObservedAt        time.Time     `json:"observed_at"`
}

// HasCondition reports whether the reading's condition is one of codes
func (r WeatherReading) HasCondition(codes ...ConditionCode) bool {
	for _, c := range codes {
		if r.Condition == c {
			return true
		}
	}
	return false
}
