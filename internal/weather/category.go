// Package weather classifies raw weather readings into discrete categories
// used for activity matching.
package weather

// Category is one member of the closed set of weather categories
type Category string

const (
	PerfectSunny Category = "perfect-sunny"
	HotSunny     Category = "hot-sunny"
	CoolSunny    Category = "cool-sunny"
	PartlyCloudy Category = "partly-cloudy"
	Overcast     Category = "overcast"
	Foggy        Category = "foggy"
	LightRain    Category = "light-rain"
	Rainy        Category = "rainy"
	Windy        Category = "windy"
	Cold         Category = "cold"
)

// Group buckets categories by how they affect outdoor plans.
// The numeric order is the distance scale used for graded penalties.
type Group int

const (
	GroupSunny Group = iota
	GroupMild
	GroupShelter
	GroupWet
)

func (g Group) String() string {
	switch g {
	case GroupSunny:
		return "sunny"
	case GroupMild:
		return "mild"
	case GroupShelter:
		return "shelter"
	case GroupWet:
		return "wet"
	}
	return "unknown"
}

// categoryInfo is the fixed display metadata for a category
type categoryInfo struct {
	displayName string
	emoji       string
	summary     string
	group       Group
	favors      []string
}

var categoryTable = map[Category]categoryInfo{
	PerfectSunny: {
		displayName: "Perfect & Sunny",
		emoji:       "☀️",
		summary:     "Clear skies and comfortable temperatures. Get outside.",
		group:       GroupSunny,
		favors:      []string{"beach", "hiking", "outdoor", "water", "biking", "picnic", "sightseeing"},
	},
	HotSunny: {
		displayName: "Hot & Sunny",
		emoji:       "🔥",
		summary:     "Hot and clear. Head for the water or find some shade.",
		group:       GroupSunny,
		favors:      []string{"beach", "water", "swimming", "kayaking", "paddleboarding", "shade"},
	},
	CoolSunny: {
		displayName: "Cool & Sunny",
		emoji:       "🌤️",
		summary:     "Crisp and clear, good for moving around outdoors.",
		group:       GroupSunny,
		favors:      []string{"hiking", "biking", "walking", "sightseeing", "outdoor", "gardens"},
	},
	PartlyCloudy: {
		displayName: "Partly Cloudy",
		emoji:       "⛅",
		summary:     "Mixed sun and cloud. Most outdoor plans still work.",
		group:       GroupMild,
		favors:      []string{"hiking", "walking", "sightseeing", "outdoor", "shopping", "gardens"},
	},
	Overcast: {
		displayName: "Overcast",
		emoji:       "☁️",
		summary:     "Grey skies but dry. Good for walking and browsing.",
		group:       GroupMild,
		favors:      []string{"museum", "shopping", "dining", "walking", "sightseeing", "cafe"},
	},
	Foggy: {
		displayName: "Foggy",
		emoji:       "🌫️",
		summary:     "Low visibility. Views will be limited.",
		group:       GroupShelter,
		favors:      []string{"indoor", "museum", "cafe", "dining", "shopping", "lighthouse"},
	},
	LightRain: {
		displayName: "Light Rain",
		emoji:       "🌦️",
		summary:     "Showers around. Keep plans flexible or stay covered.",
		group:       GroupWet,
		favors:      []string{"indoor", "museum", "cafe", "shopping", "dining", "aquarium"},
	},
	Rainy: {
		displayName: "Rainy",
		emoji:       "🌧️",
		summary:     "Steady rain. Indoor activities are the best bet.",
		group:       GroupWet,
		favors:      []string{"indoor", "museum", "aquarium", "theater", "dining", "spa"},
	},
	Windy: {
		displayName: "Windy",
		emoji:       "💨",
		summary:     "Strong wind. Sheltered spots and sailing are the exceptions.",
		group:       GroupShelter,
		favors:      []string{"indoor", "museum", "dining", "shopping", "kite", "sailing"},
	},
	Cold: {
		displayName: "Cold",
		emoji:       "🥶",
		summary:     "Chilly out. Warm up somewhere cozy.",
		group:       GroupShelter,
		favors:      []string{"indoor", "museum", "cafe", "spa", "dining", "theater"},
	},
}

// AllCategories lists the closed category set in rule order
func AllCategories() []Category {
	return []Category{
		Rainy, LightRain, Foggy, Windy, Cold,
		Overcast, PartlyCloudy, HotSunny, CoolSunny, PerfectSunny,
	}
}

// Group returns the category's group
func (c Category) Group() Group {
	return categoryTable[c].group
}

// Valid reports whether c is a member of the closed set
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}
