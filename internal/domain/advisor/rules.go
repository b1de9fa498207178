package advisor

import (
	"strings"
	"unicode"
)

type rule struct {
	name        string
	keywords    []string
	response    string
	suggestions []string
}

// matches reports whether a word starts with a keyword, or the text contains a
// multi-word keyword.
func (r rule) matches(words []string, text string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(text, kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if strings.HasPrefix(w, kw) {
				return true
			}
		}
	}
	return false
}

// rules are evaluated in order; the first match answers. {destination} is interpolated.
var rules = []rule{
	{
		name:     "budget",
		keywords: []string{"budget", "cost", "money", "cheap", "expensive", "price", "afford"},
		response: "To stretch your budget in {destination}, eat your main meal at lunch when set menus are cheaper, buy a transport pass, and mix paid sights with free walks, parks and viewpoints.",
		suggestions: []string{
			"What free things can I do?",
			"How much should I budget per day?",
			"Is a city pass worth it?",
		},
	},
	{
		name:     "food",
		keywords: []string{"food", "eat", "restaurant", "dinner", "lunch", "breakfast", "vegetarian", "vegan", "cuisine"},
		response: "For food in {destination}, look for busy local places away from the main squares, try the market halls at lunchtime, and book popular dinner spots a day or two ahead.",
		suggestions: []string{
			"What dishes should I try?",
			"Where do locals eat?",
			"Do I need to tip?",
		},
	},
	{
		name:     "weather",
		keywords: []string{"weather", "rain", "pack", "wear", "clothes", "temperature", "umbrella"},
		response: "Check the forecast for {destination} a few days before you leave and pack layers, comfortable walking shoes and a compact umbrella. Plan museums for any rainy afternoons.",
		suggestions: []string{
			"What should I pack?",
			"What can I do if it rains?",
		},
	},
	{
		name:     "transport",
		keywords: []string{"transport", "metro", "subway", "bus", "taxi", "train", "airport", "get around", "uber"},
		response: "Public transport is usually the quickest way around {destination}. A multi-day pass pays off after a few rides, and licensed taxis or ride apps are best late at night.",
		suggestions: []string{
			"How do I get from the airport?",
			"Is the city walkable?",
		},
	},
	{
		name:     "safety",
		keywords: []string{"safe", "safety", "pickpocket", "scam", "danger", "crime", "emergency"},
		response: "{destination} is generally safe for visitors, but keep valuables zipped away in crowded areas and on public transport, and be wary of distraction scams near major sights.",
		suggestions: []string{
			"Which areas should I avoid at night?",
			"What is the emergency number?",
		},
	},
	{
		name:     "documents",
		keywords: []string{"visa", "passport", "insurance", "documents", "entry"},
		response: "Check the entry requirements for {destination} on your government's travel advice site well before departure, make sure your passport has enough validity, and carry travel insurance details offline.",
		suggestions: []string{
			"Do I need travel insurance?",
			"What documents should I carry?",
		},
	},
	{
		name:     "itinerary",
		keywords: []string{"itinerary", "plan", "schedule", "visit", "sight", "things to do", "must see"},
		response: "A good day in {destination} pairs one headline sight in the morning with a neighbourhood to wander in the afternoon and a relaxed dinner. Book timed-entry tickets for the biggest attractions.",
		suggestions: []string{
			"What are the must-see sights?",
			"Can you suggest a day trip?",
			"What is good in the evening?",
		},
	},
}

var fallbackRule = rule{
	name:     "general",
	response: "I can help with planning your time in {destination}: sights, food, getting around, budgets and packing. What would you like to know?",
	suggestions: []string{
		"Plan my first day",
		"Where should I eat?",
		"How do I get around?",
	},
}

func matchRule(message string) rule {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	text := strings.Join(words, " ")
	for _, r := range rules {
		if r.matches(words, text) {
			return r
		}
	}
	return fallbackRule
}
