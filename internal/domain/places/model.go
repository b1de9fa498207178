package places

import "time"

// Category names accepted by the lookup tiers.
const (
	CategoryAttractions = "attractions"
	CategoryRestaurants = "restaurants"
	CategoryCulture     = "culture"
	CategoryNature      = "nature"
	CategoryActivities  = "activities"
)

// Source names reported by Lookup.
const (
	SourceGoogle    = "google_places"
	SourceWikipedia = "wikipedia"
	SourceCurated   = "curated"
)

// Place is a candidate point of interest. Values are never mutated after creation.
type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	Category         string   `json:"category"`
	Rating           float64  `json:"rating"`
	EstimatedCostGBP int      `json:"estimated_cost_gbp"`
	DurationHours    float64  `json:"duration_hours"`
	BookingRequired  bool     `json:"booking_required"`
	Image            string   `json:"image,omitempty"`
}

// LookupResult is the answer of the first tier that returned places.
type LookupResult struct {
	Places []Place `json:"places"`
	Source string  `json:"source"`
}

// Tier is one external lookup source, tried in order.
type Tier struct {
	Source string
	Finder Finder
}

// Config tunes lookups and the aggregator fan-out.
type Config struct {
	PerCategory    int
	Timeout        time.Duration
	MaxConcurrency int
	CacheTTL       time.Duration
}

var knownCategories = map[string]struct{}{
	CategoryAttractions: {},
	CategoryRestaurants: {},
	CategoryCulture:     {},
	CategoryNature:      {},
	CategoryActivities:  {},
}

// IsKnownCategory reports whether category is one of the lookup categories.
func IsKnownCategory(category string) bool {
	_, ok := knownCategories[category]
	return ok
}
