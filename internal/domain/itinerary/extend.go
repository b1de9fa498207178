package itinerary

import (
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/places"
)

const longTripDays = 7

// Extend pads partial to exactly trip.Days days and returns how many days it added.
// Missing days get a morning and an afternoon activity drawn round-robin from places
// not already used, falling back to templates when none remain. An evening activity
// is added every third synthesized day, or every day on trips longer than a week.
func Extend(partial Itinerary, trip Trip, pool []places.Place) (Itinerary, int) {
	out := Itinerary{
		Currency:     CurrencyGBP,
		TravelTips:   append([]string(nil), partial.TravelTips...),
		LocalPhrases: append([]LocalPhrase(nil), partial.LocalPhrases...),
		Fidelity:     partial.Fidelity,
	}
	existing := partial.Days
	if len(existing) > trip.Days {
		existing = existing[:trip.Days]
	}

	ids := make(map[string]struct{})
	used := make(map[string]struct{})
	for i, d := range existing {
		acts := make([]Activity, len(d.Activities))
		copy(acts, d.Activities)
		for _, a := range acts {
			ids[a.ID] = struct{}{}
			used[strings.ToLower(strings.TrimSpace(a.Title))] = struct{}{}
		}
		out.Days = append(out.Days, Day{DayNumber: i + 1, Date: trip.DateAt(i), Activities: acts})
	}

	available := make([]places.Place, 0, len(pool))
	for _, p := range pool {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := used[key]; ok || key == "" {
			continue
		}
		used[key] = struct{}{}
		available = append(available, p)
	}

	cursor := 0
	next := func(slot ActivityType, dayIndex int) Activity {
		if len(available) == 0 {
			return templateActivity(slot, dayIndex, trip)
		}
		p := available[cursor%len(available)]
		cursor++
		return placeActivity(p, slot, trip.Request.Destination)
	}

	added := 0
	for idx := len(out.Days); idx < trip.Days; idx++ {
		synth := idx - len(existing)
		day := Day{DayNumber: idx + 1, Date: trip.DateAt(idx)}
		day.Activities = append(day.Activities, next(SlotMorning, idx), next(SlotAfternoon, idx))
		if trip.Days > longTripDays || synth%3 == 2 {
			day.Activities = append(day.Activities, templateActivity(SlotEvening, idx, trip))
		}
		for n := range day.Activities {
			day.Activities[n].ID = uniqueID(ids, "", day.DayNumber, n+1)
		}
		out.Days = append(out.Days, day)
		added++
	}

	fillItineraryDefaults(&out, trip.Request.Destination)
	out.TotalEstimatedCostGBP = TotalCost(out)
	return out, added
}

// BuildSample builds every day from places and templates.
func BuildSample(trip Trip, pool []places.Place) Itinerary {
	it, _ := Extend(Itinerary{}, trip, pool)
	it.Fidelity = FidelityRealPlaces
	return it
}

// BuildGeneric builds every day from templates only.
func BuildGeneric(trip Trip) Itinerary {
	it, _ := Extend(Itinerary{}, trip, nil)
	it.Fidelity = FidelityGeneric
	return it
}

func placeActivity(p places.Place, slot ActivityType, destination string) Activity {
	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = "Visit " + p.Name + " in " + destination + "."
	}
	location := strings.TrimSpace(p.Location)
	if location == "" {
		location = p.Name + ", " + destination
	}
	hours := p.DurationHours
	if hours <= 0 {
		hours = DefaultDuration
	}
	cost := p.EstimatedCostGBP
	if cost < 0 {
		cost = 0
	}
	confidence := 80
	if p.Rating >= 4.5 {
		confidence = 90
	}
	tip := DefaultLocalTip
	if p.BookingRequired {
		tip = "Book tickets for " + p.Name + " online ahead of your visit."
	}
	return Activity{
		Time:             slotClock[slot],
		Title:            p.Name,
		Description:      description,
		Location:         location,
		Type:             slot,
		Confidence:       confidence,
		EstimatedCostGBP: cost,
		DurationHours:    hours,
		BookingRequired:  p.BookingRequired,
		LocalTip:         tip,
	}
}
