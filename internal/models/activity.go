package models

// Setting says whether an activity happens indoors, outdoors or both
type Setting string

const (
	SettingUnknown Setting = ""
	SettingIndoor  Setting = "indoor"
	SettingOutdoor Setting = "outdoor"
	SettingMixed   Setting = "mixed"
)

// TidePreference is an activity's affinity for a phase of the tide cycle
type TidePreference string

const (
	PreferNone       TidePreference = ""
	PreferAny        TidePreference = "any"
	PreferLow        TidePreference = "low"
	PreferHigh       TidePreference = "high"
	PreferMid        TidePreference = "mid"
	PreferRising     TidePreference = "rising"
	PreferFalling    TidePreference = "falling"
	PreferTideChange TidePreference = "tide-change"
)

// IsTideSensitive reports whether the preference asks for tide scoring
func (p TidePreference) IsTideSensitive() bool {
	return p != PreferNone && p != PreferAny
}

// OptimalTideRange bounds the tide height (feet) an activity works best at.
// Either bound may be nil.
type OptimalTideRange struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Activity is a read-only catalog entry
type Activity struct {
	ID                 string            `json:"id" yaml:"id"`
	Title              string            `json:"title" yaml:"title" validate:"required"`
	Tags               []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Setting            Setting           `json:"setting,omitempty" yaml:"setting,omitempty" validate:"omitempty,oneof=indoor outdoor mixed"`
	RainOK             bool              `json:"rain_ok" yaml:"rain_ok"`
	WeatherSuitability []string          `json:"weather_suitability,omitempty" yaml:"weather_suitability,omitempty"`
	TidePreference     TidePreference    `json:"tide_preference,omitempty" yaml:"tide_preference,omitempty" validate:"omitempty,oneof=any low high mid rising falling tide-change"`
	OptimalTide        *OptimalTideRange `json:"optimal_tide,omitempty" yaml:"optimal_tide,omitempty"`

	// Descriptive only
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Cost    string `json:"cost,omitempty" yaml:"cost,omitempty"`
	Venue   string `json:"venue,omitempty" yaml:"venue,omitempty"`
}
