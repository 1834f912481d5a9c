package weather

import (
	"strings"
	"unicode"

	"github.com/ngmaloney/coastal-activities/internal/models"
)

// Classification thresholds
const (
	HeavyPrecipInches       = 0.1
	RainProbabilityLikely   = 60.0
	RainProbabilityPossible = 50.0
	FogVisibilityMiles      = 1.0
	WindyMPH                = 20.0
	ColdTempF               = 45.0
	OvercastCloudPct        = 70.0
	PartlyCloudyCloudPct    = 30.0
	HotTempF                = 85.0
	CoolTempF               = 60.0
)

// Rule pairs a predicate with the category it yields
type Rule struct {
	Name     string
	Category Category
	Match    func(r models.WeatherReading) bool
}

// Rules is the ordered rule chain. Precipitation and visibility come before
// temperature bands, and the final rule always matches so classification is
// total.
var Rules = []Rule{
	{
		Name:     "thunder or heavy rain",
		Category: Rainy,
		Match: func(r models.WeatherReading) bool {
			if r.HasCondition(models.ConditionThunderstorm) || r.Precipitation >= HeavyPrecipInches {
				return true
			}
			return r.HasCondition(models.ConditionRain, models.ConditionSnow) && r.PrecipProbability >= RainProbabilityLikely
		},
	},
	{
		Name:     "showers or likely rain",
		Category: LightRain,
		Match: func(r models.WeatherReading) bool {
			return r.HasCondition(models.ConditionRain, models.ConditionDrizzle, models.ConditionSnow) ||
				r.Precipitation > 0 ||
				r.PrecipProbability >= RainProbabilityPossible
		},
	},
	{
		Name:     "fog or low visibility",
		Category: Foggy,
		Match: func(r models.WeatherReading) bool {
			if r.HasCondition(models.ConditionFog, models.ConditionMist, models.ConditionHaze) {
				return true
			}
			return r.Visibility != nil && *r.Visibility < FogVisibilityMiles
		},
	},
	{
		Name:     "strong wind",
		Category: Windy,
		Match:    func(r models.WeatherReading) bool { return r.WindSpeed >= WindyMPH },
	},
	{
		Name:     "cold",
		Category: Cold,
		Match:    func(r models.WeatherReading) bool { return r.Temperature < ColdTempF },
	},
	{
		Name:     "overcast",
		Category: Overcast,
		Match:    func(r models.WeatherReading) bool { return r.CloudCover >= OvercastCloudPct },
	},
	{
		Name:     "partly cloudy",
		Category: PartlyCloudy,
		Match:    func(r models.WeatherReading) bool { return r.CloudCover >= PartlyCloudyCloudPct },
	},
	{
		Name:     "clear and hot",
		Category: HotSunny,
		Match:    func(r models.WeatherReading) bool { return r.Temperature >= HotTempF },
	},
	{
		Name:     "clear and cool",
		Category: CoolSunny,
		Match:    func(r models.WeatherReading) bool { return r.Temperature <= CoolTempF },
	},
	{
		Name:     "clear and mild",
		Category: PerfectSunny,
		Match:    func(models.WeatherReading) bool { return true },
	},
}

// Classification is the derived, display-ready view of a reading
type Classification struct {
	Category    Category `json:"category"`
	DisplayName string   `json:"display_name"`
	Emoji       string   `json:"emoji"`
	Summary     string   `json:"summary"`
	FavoredTags []string `json:"favored_tags"`
	Rule        string   `json:"rule"`
}

// Classify maps a reading to exactly one category
func Classify(r models.WeatherReading) Classification {
	for _, rule := range Rules {
		if rule.Match(r) {
			return NewClassification(rule.Category, rule.Name)
		}
	}
	// unreachable: the last rule always matches
	return NewClassification(PerfectSunny, "fallback")
}

// NewClassification builds a classification for a known category
func NewClassification(c Category, rule string) Classification {
	info := categoryTable[c]
	favored := make([]string, len(info.favors))
	copy(favored, info.favors)
	return Classification{
		Category:    c,
		DisplayName: info.displayName,
		Emoji:       info.emoji,
		Summary:     info.summary,
		FavoredTags: favored,
		Rule:        rule,
	}
}

// Group returns the classification's category group
func (c Classification) Group() Group {
	return c.Category.Group()
}

// Favors reports whether tag matches the category id or one of its favored
// tags. Matching is case-insensitive and word-wise: "water-sports" matches
// "water" and "kayak" matches "kayaking", but "art" does not match
// "partly-cloudy".
func (c Classification) Favors(tag string) bool {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return false
	}
	if tagsOverlap(t, string(c.Category)) {
		return true
	}
	for _, f := range c.FavoredTags {
		if tagsOverlap(t, f) {
			return true
		}
	}
	return false
}

// CategoriesFor resolves a free-text tag to every category it names or is
// favored by.
func CategoriesFor(tag string) []Category {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return nil
	}
	var out []Category
	for _, c := range AllCategories() {
		if tagsOverlap(t, string(c)) {
			out = append(out, c)
			continue
		}
		for _, f := range categoryTable[c].favors {
			if tagsOverlap(t, f) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// minPrefixLen is the shortest tag word allowed to match as a prefix
const minPrefixLen = 4

// tagsOverlap reports whether tag names target as a whole, names one of
// target's words, or contains target as one of its own words.
func tagsOverlap(tag, target string) bool {
	tagW, targetW := tagWords(tag), tagWords(target)
	whole, targetWhole := strings.Join(tagW, "-"), strings.Join(targetW, "-")
	if whole == "" {
		return false
	}
	if wordsMatch(whole, targetWhole) {
		return true
	}
	for _, w := range targetW {
		if wordsMatch(whole, w) {
			return true
		}
	}
	for _, w := range tagW {
		if wordsMatch(w, targetWhole) {
			return true
		}
	}
	return false
}

// wordsMatch accepts an exact word, a plural of it, or a prefix of at
// least minPrefixLen letters ("kayak" for "kayaking").
func wordsMatch(w, target string) bool {
	switch {
	case w == target, w == target+"s":
		return true
	case len(w) >= minPrefixLen:
		return strings.HasPrefix(target, w)
	}
	return false
}

// tagWords splits a tag like "Water-Sports" into lower-case words
func tagWords(tag string) []string {
	return strings.FieldsFunc(strings.ToLower(tag), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
