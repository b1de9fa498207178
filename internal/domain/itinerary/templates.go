package itinerary

import (
	"math"
	"strings"

	"github.com/yanqian/trip-planner/pkg/util"
)

type activityTemplate struct {
	title       string
	description string
	cost        int
	hours       float64
	booking     bool
	tip         string
}

// Templates interpolate {destination}.
var slotTemplates = map[ActivityType][]activityTemplate{
	SlotMorning: {
		{"Old town walking tour", "Start the day with a self-guided walk through the historic centre of {destination}.", 0, 2.5, false, "Go before 10am to beat the tour groups."},
		{"Local market breakfast", "Browse the morning market stalls and try a local breakfast in {destination}.", 12, 1.5, false, "Bring cash; smaller stalls rarely take cards."},
		{"Landmark visit", "Visit the best-known landmark of {destination} while queues are short.", 20, 2, true, "Book the first entry slot online."},
		{"Museum morning", "Spend the morning in one of the main museums of {destination}.", 15, 2.5, true, "Many museums have a free or discounted day each month."},
	},
	SlotAfternoon: {
		{"Neighbourhood exploration", "Wander a lively neighbourhood of {destination}, stopping at cafés and independent shops.", 15, 3, false, "Side streets one block off the main road are quieter and cheaper."},
		{"Park and viewpoint", "Relax in a park and climb to a viewpoint over {destination}.", 5, 2, false, "Late afternoon light is best for photos."},
		{"Food tasting", "Sample regional dishes on a tasting crawl through {destination}.", 35, 2.5, true, "Lunch set menus are far cheaper than dinner."},
		{"Guided cultural tour", "Join a guided tour covering the history and culture of {destination}.", 25, 2, true, "Free walking tours run on tips; budget a few pounds."},
	},
	SlotEvening: {
		{"Dinner at a local favourite", "Enjoy dinner where locals eat in {destination}.", 40, 2, true, "Reserve ahead on weekends."},
		{"Sunset stroll", "Take an evening stroll through {destination} as the city lights up.", 0, 1.5, false, "Check the sunset time the day before."},
		{"Live music or show", "Catch live music or a show in {destination}.", 30, 2.5, true, "Look for last-minute ticket booths for discounts."},
	},
}

var slotClock = map[ActivityType]string{
	SlotMorning:   "09:30",
	SlotAfternoon: "14:00",
	SlotEvening:   "19:30",
}

func budgetMultiplier(tier BudgetTier) float64 {
	switch tier {
	case BudgetLow:
		return 0.6
	case BudgetLuxury:
		return 2
	default:
		return 1
	}
}

func templateActivity(slot ActivityType, index int, trip Trip) Activity {
	options := slotTemplates[slot]
	tpl := options[index%len(options)]
	destination := trip.Request.Destination
	return Activity{
		Time:             slotClock[slot],
		Title:            tpl.title,
		Description:      interpolate(tpl.description, destination),
		Location:         destination,
		Type:             slot,
		Confidence:       70,
		EstimatedCostGBP: int(math.Round(float64(tpl.cost) * budgetMultiplier(trip.Request.Budget))),
		DurationHours:    tpl.hours,
		BookingRequired:  tpl.booking,
		LocalTip:         tpl.tip,
	}
}

func interpolate(s, destination string) string {
	return strings.ReplaceAll(s, "{destination}", destination)
}

func defaultTravelTips(destination string) []string {
	return []string{
		"Buy a multi-day public transport pass in " + destination + " if you plan to use it more than twice a day.",
		"Keep a copy of your passport and booking confirmations offline on your phone.",
		"Book popular attractions online in advance to skip queues.",
		"Carry a reusable water bottle and a small amount of local cash.",
	}
}

type phraseSet struct {
	places  []string
	phrases []LocalPhrase
}

var phraseSets = []phraseSet{
	{
		places: []string{"spain", "barcelona", "madrid", "seville", "valencia", "mexico", "buenos aires"},
		phrases: []LocalPhrase{
			{"Hello", "Hola", "OH-lah"},
			{"Thank you", "Gracias", "GRAH-syahs"},
			{"The bill, please", "La cuenta, por favor", "lah KWEN-tah por fah-VOR"},
		},
	},
	{
		places: []string{"france", "paris", "lyon", "nice", "marseille"},
		phrases: []LocalPhrase{
			{"Hello", "Bonjour", "bohn-ZHOOR"},
			{"Thank you", "Merci", "mair-SEE"},
			{"The bill, please", "L'addition, s'il vous plaît", "lah-dee-SYOHN seel voo PLAY"},
		},
	},
	{
		places: []string{"italy", "rome", "milan", "florence", "venice", "naples"},
		phrases: []LocalPhrase{
			{"Hello", "Ciao", "CHOW"},
			{"Thank you", "Grazie", "GRAHT-see-eh"},
			{"The bill, please", "Il conto, per favore", "eel KOHN-toh pair fah-VOH-reh"},
		},
	},
	{
		places: []string{"portugal", "lisbon", "porto", "brazil"},
		phrases: []LocalPhrase{
			{"Hello", "Olá", "oh-LAH"},
			{"Thank you", "Obrigado", "oh-bree-GAH-doo"},
			{"The bill, please", "A conta, por favor", "ah KOHN-tah poor fah-VOR"},
		},
	},
	{
		places: []string{"germany", "berlin", "munich", "hamburg", "vienna", "austria"},
		phrases: []LocalPhrase{
			{"Hello", "Hallo", "HAH-loh"},
			{"Thank you", "Danke", "DAHN-keh"},
			{"The bill, please", "Die Rechnung, bitte", "dee REKH-noong BIT-teh"},
		},
	},
	{
		places: []string{"japan", "tokyo", "kyoto", "osaka"},
		phrases: []LocalPhrase{
			{"Hello", "Konnichiwa", "kohn-nee-chee-wah"},
			{"Thank you", "Arigatou gozaimasu", "ah-ree-gah-toh goh-zai-mahs"},
			{"Excuse me", "Sumimasen", "soo-mee-mah-sen"},
		},
	},
}

func phrasesFor(destination string) []LocalPhrase {
	for _, set := range phraseSets {
		for _, place := range set.places {
			if util.ContainsWords(destination, place) {
				out := make([]LocalPhrase, len(set.phrases))
				copy(out, set.phrases)
				return out
			}
		}
	}
	return []LocalPhrase{
		{"Hello", "Hello", "heh-LOH"},
		{"Thank you", "Thank you", "THANK yoo"},
	}
}
