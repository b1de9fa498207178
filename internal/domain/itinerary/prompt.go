package itinerary

import (
	"fmt"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

const itinerarySystemPrompt = "You are a travel planner. Reply with a single JSON object and nothing else."

// activitySchema is the field list small models are asked to fill.
const activitySchema = `{"time":"HH:MM","title":"...","description":"...","location":"...","type":"morning|afternoon|evening","estimated_cost_gbp":0,"duration_hours":0,"booking_required":false,"local_tip":"..."}`

// buildPrompt keeps the request small: the model plans at most promptDays days
// and Extend covers the rest of the trip.
func buildPrompt(trip Trip, promptDays int, hints []places.Place) string {
	req := trip.Request
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %d day(s) in %s starting %s for a %s traveller on a %s budget.\n",
		promptDays, req.Destination, trip.DateAt(0), req.Group, req.Budget)
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(req.Interests, ", "))
	}
	if len(req.Accessibility) > 0 {
		fmt.Fprintf(&b, "Accessibility needs: %s.\n", strings.Join(req.Accessibility, ", "))
	}
	if len(hints) > 0 {
		names := make([]string, 0, len(hints))
		for _, p := range hints {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "Use real places such as: %s.\n", strings.Join(names, "; "))
	}
	b.WriteString("Give 2 or 3 activities per day with costs in GBP.\n")
	fmt.Fprintf(&b, `Return JSON: {"days":[{"day_number":1,"activities":[%s]}]}`, activitySchema)
	return b.String()
}

func promptDaysFor(trip Trip, limit int) int {
	if limit <= 0 {
		limit = defaultPromptMaxDays
	}
	if trip.Days < limit {
		return trip.Days
	}
	return limit
}
