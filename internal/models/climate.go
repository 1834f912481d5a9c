package models

import (
	"fmt"
	"strings"
)

// CrowdLevel is the categorical visitor volume for a month
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "Low"
	CrowdMedium   CrowdLevel = "Medium"
	CrowdHigh     CrowdLevel = "High"
	CrowdVeryHigh CrowdLevel = "Very High"
)

// ParseCrowdLevel accepts the display form or a loose variant ("very-high", "very_high")
func ParseCrowdLevel(s string) (CrowdLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch norm {
	case "low":
		return CrowdLow, nil
	case "medium":
		return CrowdMedium, nil
	case "high":
		return CrowdHigh, nil
	case "very high":
		return CrowdVeryHigh, nil
	}
	return "", fmt.Errorf("unknown crowd level %q", s)
}

// UnmarshalYAML lets reference files use any accepted spelling
func (c *CrowdLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	level, err := ParseCrowdLevel(raw)
	if err != nil {
		return err
	}
	*c = level
	return nil
}

// MonthProfile holds historical climate aggregates for one calendar month
type MonthProfile struct {
	Month        int        `json:"month" yaml:"month"` // 1-12
	Name         string     `json:"name" yaml:"name"`
	AvgHighTemp  float64    `json:"avg_high_temp" yaml:"avg_high_temp"`
	AvgLowTemp   float64    `json:"avg_low_temp" yaml:"avg_low_temp"`
	RainDays     float64    `json:"rain_days" yaml:"rain_days"`
	SunnyDays    float64    `json:"sunny_days" yaml:"sunny_days"`
	CrowdLevel   CrowdLevel `json:"crowd_level" yaml:"crowd_level"`
	Highlights   []string   `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	GeneralScore int        `json:"general_score" yaml:"general_score"` // 0-100
}

// VisitorPersona weights four climate priorities, each in [0,1]
type VisitorPersona struct {
	ID                  string  `json:"id" yaml:"id"`
	Name                string  `json:"name" yaml:"name"`
	Description         string  `json:"description" yaml:"description"`
	WarmthWeight        float64 `json:"warmth_weight" yaml:"warmth_weight"`
	DrynessWeight       float64 `json:"dryness_weight" yaml:"dryness_weight"`
	FewerCrowdsWeight   float64 `json:"fewer_crowds_weight" yaml:"fewer_crowds_weight"`
	AffordabilityWeight float64 `json:"affordability_weight" yaml:"affordability_weight"`
}
