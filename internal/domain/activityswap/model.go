package activityswap

import "github.com/yanqian/trip-planner/internal/domain/itinerary"

// Request carries the activity being replaced.
type Request struct {
	ActivityID      string             `json:"activityId"`
	CurrentActivity itinerary.Activity `json:"currentActivity"`
	UserPreferences Preferences        `json:"userPreferences"`
}

// Preferences is the traveller context used to steer the replacement.
type Preferences struct {
	Destination string   `json:"destination"`
	Budget      string   `json:"budget"`
	Group       string   `json:"group"`
	Interests   []string `json:"interests"`
}

// Response is serialized back to API consumers.
type Response struct {
	Success     bool               `json:"success"`
	NewActivity itinerary.Activity `json:"newActivity"`
	AIPowered   bool               `json:"ai_powered"`
}

type alternative struct {
	title       string
	description string
	cost        int
	hours       float64
	booking     bool
	tip         string
}

// curatedAlternatives is the pool used when generation is unavailable.
var curatedAlternatives = []alternative{
	{"Local food market", "Browse the stalls of a neighbourhood market and snack on regional specialities.", 15, 1.5, false, "Go hungry and share small plates to try more."},
	{"Scenic viewpoint", "Head up to a popular viewpoint for a panorama over the city.", 5, 1.5, false, "Sunrise and sunset are the least crowded times."},
	{"Art gallery visit", "Explore a smaller gallery showing local and contemporary artists.", 12, 2, false, "Many galleries are free on one evening a week."},
	{"Guided walking tour", "Join a small-group walking tour through the historic streets.", 20, 2, true, "Tip-based tours are good value; book a spot the day before."},
	{"Cooking class", "Learn to cook a classic local dish with a resident chef.", 55, 3, true, "Classes sell out quickly at weekends."},
	{"Riverside or waterfront stroll", "Take an easy walk along the water and stop at a café.", 0, 1.5, false, "Bring a light layer; it gets breezy by the water."},
}
