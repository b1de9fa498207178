package places

import (
	"context"
	"sort"
	"strings"

	"github.com/yanqian/trip-planner/pkg/util"
)

type curatedEntry struct {
	name        string
	description string
	category    string
	cost        int
	hours       float64
	booking     bool
	rating      float64
}

var curatedPlaces = map[string][]curatedEntry{
	"barcelona": {
		{"Sagrada Família", "Gaudí's unfinished basilica, famous for its forest-like interior.", CategoryAttractions, 26, 2, true, 4.8},
		{"Park Güell", "Mosaic terraces and city views on Carmel Hill.", CategoryAttractions, 10, 2, true, 4.6},
		{"La Boqueria Market", "Covered market off La Rambla with tapas counters.", CategoryRestaurants, 15, 1.5, false, 4.5},
		{"El Xampanyet", "Busy cava bar in El Born serving anchovies and tapas.", CategoryRestaurants, 25, 1.5, false, 4.4},
		{"Gothic Quarter", "Medieval lanes around the cathedral and Plaça del Rei.", CategoryCulture, 0, 2, false, 4.7},
		{"Picasso Museum", "Early works by Picasso in five Gothic palaces.", CategoryCulture, 13, 2, true, 4.5},
		{"Montjuïc", "Hilltop gardens, castle and cable car above the port.", CategoryNature, 8, 3, false, 4.6},
		{"Barceloneta Beach", "City beach with a seafront promenade.", CategoryNature, 0, 2, false, 4.3},
		{"El Born bars", "Cocktail bars and late-night venues in El Born.", CategoryActivities, 30, 3, false, 4.4},
	},
	"paris": {
		{"Eiffel Tower", "Iron landmark with summit views over the Seine.", CategoryAttractions, 25, 2, true, 4.7},
		{"Sainte-Chapelle", "Gothic chapel lined with stained glass.", CategoryAttractions, 11, 1, true, 4.7},
		{"Marché des Enfants Rouges", "The city's oldest covered market with lunch stalls.", CategoryRestaurants, 18, 1.5, false, 4.5},
		{"Louvre Museum", "The world's most visited museum, home of the Mona Lisa.", CategoryCulture, 19, 3, true, 4.7},
		{"Musée d'Orsay", "Impressionist collection in a former railway station.", CategoryCulture, 14, 2.5, true, 4.8},
		{"Jardin du Luxembourg", "Formal gardens with fountains and chess players.", CategoryNature, 0, 1.5, false, 4.7},
		{"Seine evening cruise", "River cruise past the illuminated monuments.", CategoryActivities, 16, 1, true, 4.5},
	},
	"london": {
		{"Tower of London", "Historic fortress and home of the Crown Jewels.", CategoryAttractions, 34, 3, true, 4.6},
		{"Borough Market", "Food market by London Bridge.", CategoryRestaurants, 15, 1.5, false, 4.6},
		{"British Museum", "World history and culture, free entry.", CategoryCulture, 0, 3, false, 4.7},
		{"Tate Modern", "Modern art in a converted power station.", CategoryCulture, 0, 2, false, 4.5},
		{"Hampstead Heath", "Wild parkland with views from Parliament Hill.", CategoryNature, 0, 2, false, 4.7},
		{"West End show", "An evening musical or play in Theatreland.", CategoryActivities, 60, 3, true, 4.7},
	},
	"rome": {
		{"Colosseum", "Ancient amphitheatre at the heart of the city.", CategoryAttractions, 18, 2, true, 4.8},
		{"Trevi Fountain", "Baroque fountain, best early in the morning.", CategoryAttractions, 0, 0.5, false, 4.7},
		{"Testaccio Market", "Neighbourhood market known for Roman street food.", CategoryRestaurants, 12, 1, false, 4.6},
		{"Vatican Museums", "Papal collections ending at the Sistine Chapel.", CategoryCulture, 20, 3, true, 4.6},
		{"Villa Borghese", "Landscaped park above Piazza del Popolo.", CategoryNature, 0, 2, false, 4.6},
		{"Trastevere evening", "Aperitivo and live music across the river.", CategoryActivities, 25, 3, false, 4.6},
	},
	"lisbon": {
		{"Belém Tower", "Riverside fortress from the Age of Discovery.", CategoryAttractions, 8, 1, true, 4.5},
		{"Time Out Market", "Food hall with stalls from local chefs.", CategoryRestaurants, 18, 1.5, false, 4.5},
		{"Jerónimos Monastery", "Manueline monastery in Belém.", CategoryCulture, 10, 1.5, true, 4.7},
		{"Sintra day trip", "Palaces and forest trails in the hills.", CategoryNature, 20, 6, true, 4.8},
		{"Bairro Alto", "Narrow streets filled with bars after dark.", CategoryActivities, 20, 3, false, 4.3},
	},
}

// CuratedFinder answers from a fixed dataset of hand-picked places.
type CuratedFinder struct {
	data map[string][]curatedEntry
	keys []string
}

// NewCuratedFinder returns the built-in curated dataset.
func NewCuratedFinder() *CuratedFinder {
	keys := make([]string, 0, len(curatedPlaces))
	for key := range curatedPlaces {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &CuratedFinder{data: curatedPlaces, keys: keys}
}

// Search returns curated places for a known destination and category.
func (f *CuratedFinder) Search(_ context.Context, destination, category string, limit int) ([]Place, error) {
	key, entries := f.match(destination)
	if key == "" {
		return nil, nil
	}
	out := make([]Place, 0, len(entries))
	for _, e := range entries {
		if e.category != category {
			continue
		}
		out = append(out, Place{
			ID:               "curated-" + key + "-" + slug(e.name),
			Name:             e.name,
			Description:      e.description,
			Location:         e.name + ", " + titleCase(key),
			Category:         e.category,
			Rating:           e.rating,
			EstimatedCostGBP: e.cost,
			DurationHours:    e.hours,
			BookingRequired:  e.booking,
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// match picks the first city, in key order, named as a whole word in destination.
func (f *CuratedFinder) match(destination string) (string, []curatedEntry) {
	for _, key := range f.keys {
		if util.ContainsWords(destination, key) {
			return key, f.data[key]
		}
	}
	return "", nil
}

func slug(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && b.Len() > 0 {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
