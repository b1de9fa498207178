package itinerary

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Activity defaults applied to missing generator fields.
const (
	DefaultTime       = "09:00"
	DefaultType       = SlotMorning
	DefaultConfidence = 85
	DefaultCostGBP    = 20
	DefaultDuration   = 2.0
	DefaultLocalTip   = "Ask a local for their favourite spot nearby; it is often better than the guidebook pick."
)

// Generator numbers above these bounds are clamped.
const (
	MaxCostGBP       = 100000
	MaxDurationHours = 24.0
)

// Normalize turns raw generator text into a canonical itinerary for trip.
// The result may have fewer days than trip.Days; see Extend.
func Normalize(raw string, trip Trip) (Itinerary, error) {
	it, _, err := normalize(raw, trip)
	return it, err
}

func normalize(raw string, trip Trip) (Itinerary, int, error) {
	obj, err := RepairObject(raw, "days")
	if err != nil {
		return Itinerary{}, 0, err
	}

	rawDays, err := daysOf(obj)
	if err != nil {
		return Itinerary{}, 0, &NormalizeError{Stage: StageValidate, Err: err}
	}

	destination := trip.Request.Destination
	ids := make(map[string]struct{})
	days := make([]Day, 0, len(rawDays))
	truncated := 0
	for _, rd := range rawDays {
		dayMap, ok := rd.(map[string]any)
		if !ok {
			continue
		}
		if len(days) == trip.Days {
			truncated++
			continue
		}
		offset := len(days)
		day := Day{DayNumber: offset + 1, Date: trip.DateAt(offset), Activities: []Activity{}}
		rawActs, _ := pick(dayMap, "activities", "items", "schedule").([]any)
		for n, ra := range rawActs {
			actMap, ok := ra.(map[string]any)
			if !ok {
				continue
			}
			act := CoerceActivity(actMap, destination)
			if IsPlaceholder(act.Title) || IsPlaceholder(act.Description) {
				return Itinerary{}, 0, &NormalizeError{Stage: StageValidate, Err: fmt.Errorf("placeholder text in activity %q", act.Title)}
			}
			act.ID = uniqueID(ids, act.ID, day.DayNumber, n+1)
			day.Activities = append(day.Activities, act)
		}
		sortByTime(day.Activities)
		days = append(days, day)
	}
	if len(days) == 0 {
		return Itinerary{}, 0, &NormalizeError{Stage: StageValidate, Err: errors.New("no usable days")}
	}

	it := Itinerary{
		Days:         days,
		Currency:     CurrencyGBP,
		TravelTips:   coerceStrings(pick(obj, "travel_tips", "tips")),
		LocalPhrases: coercePhrases(pick(obj, "local_phrases", "phrases")),
	}
	fillItineraryDefaults(&it, destination)
	it.TotalEstimatedCostGBP = TotalCost(it)
	return it, truncated, nil
}

func daysOf(obj map[string]any) ([]any, error) {
	switch v := pick(obj, "days", "itinerary").(type) {
	case []any:
		if len(v) == 0 {
			return nil, errors.New("days is empty")
		}
		return v, nil
	case map[string]any:
		return daysOf(v)
	}
	if _, ok := pick(obj, "activities").([]any); ok {
		return []any{obj}, nil
	}
	return nil, errors.New("missing days")
}

// CoerceActivity builds an activity from a loosely typed object, filling defaults.
// The returned ID is empty when the object carried none.
func CoerceActivity(m map[string]any, destination string) Activity {
	act := Activity{
		ID:          strings.TrimSpace(asString(pick(m, "id"))),
		Title:       strings.TrimSpace(asString(pick(m, "title", "name", "activity"))),
		Description: strings.TrimSpace(asString(pick(m, "description", "details", "summary"))),
		Location:    strings.TrimSpace(asString(pick(m, "location", "address", "place"))),
		LocalTip:    strings.TrimSpace(asString(pick(m, "local_tip", "tip"))),
	}

	clock, ok := parseClock(asString(pick(m, "time", "start_time")))
	if !ok {
		clock = DefaultTime
	}
	act.Time = clock

	rawType := strings.ToLower(strings.TrimSpace(asString(pick(m, "type", "slot", "period"))))
	switch {
	case rawType == "":
		act.Type = DefaultType
	case isSlot(ActivityType(rawType)):
		act.Type = ActivityType(rawType)
	default:
		act.Type = slotForClock(act.Time)
	}

	act.Confidence = DefaultConfidence
	if n, ok := asNumber(pick(m, "confidence")); ok {
		// Fractions below one are read as probabilities; 1 itself is already a percentage.
		if n > 0 && n < 1 {
			n *= 100
		}
		act.Confidence = int(math.Round(math.Max(0, math.Min(100, n))))
	}

	act.EstimatedCostGBP = DefaultCostGBP
	if n, ok := asNumber(pick(m, "estimated_cost_gbp", "estimated_cost", "cost_gbp", "cost", "price")); ok && n >= 0 {
		act.EstimatedCostGBP = int(math.Round(math.Min(n, MaxCostGBP)))
	}

	act.DurationHours = DefaultDuration
	if n, ok := asNumber(pick(m, "duration_hours", "duration")); ok && n > 0 {
		act.DurationHours = math.Min(n, MaxDurationHours)
	}

	act.BookingRequired = asBool(pick(m, "booking_required", "requires_booking", "booking"))

	if act.Title == "" {
		switch {
		case act.Location != "":
			act.Title = "Visit " + act.Location
		default:
			act.Title = "Explore " + destination
		}
	}
	if act.Description == "" {
		act.Description = act.Title
	}
	if act.Location == "" {
		act.Location = destination
	}
	if act.LocalTip == "" {
		act.LocalTip = DefaultLocalTip
	}
	return act
}

// TotalCost sums every activity cost.
func TotalCost(it Itinerary) int {
	total := 0
	for _, d := range it.Days {
		for _, a := range d.Activities {
			total += a.EstimatedCostGBP
		}
	}
	return total
}

func fillItineraryDefaults(it *Itinerary, destination string) {
	it.Currency = CurrencyGBP
	if len(it.TravelTips) == 0 {
		it.TravelTips = defaultTravelTips(destination)
	}
	if len(it.LocalPhrases) == 0 {
		it.LocalPhrases = phrasesFor(destination)
	}
}

func uniqueID(seen map[string]struct{}, id string, day, n int) string {
	if id != "" {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			return id
		}
	}
	candidate := fmt.Sprintf("act-%d-%d", day, n)
	for suffix := 2; ; suffix++ {
		if _, dup := seen[candidate]; !dup {
			seen[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("act-%d-%d-%d", day, n, suffix)
	}
}

func sortByTime(acts []Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Time < acts[j].Time
	})
}

func isSlot(t ActivityType) bool {
	return t == SlotMorning || t == SlotAfternoon || t == SlotEvening
}

func slotForClock(clock string) ActivityType {
	hour, err := strconv.Atoi(clock[:2])
	if err != nil {
		return DefaultType
	}
	switch {
	case hour < 12:
		return SlotMorning
	case hour < 17:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?`)

// parseClock accepts "9:00", "09.30", "2pm" or "2:30 PM" and returns "HH:MM".
func parseClock(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "") {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// pick returns the first value whose key matches one of names, ignoring case,
// underscores and dashes, so "dayNumber" and "day_number" are the same key.
func pick(m map[string]any, names ...string) any {
	for _, name := range names {
		if v, ok := m[name]; ok && v != nil {
			return v
		}
	}
	for _, name := range names {
		want := foldKey(name)
		for k, v := range m {
			if v != nil && foldKey(k) == want {
				return v
			}
		}
	}
	return nil
}

func foldKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, isFinite(t)
	case string:
		match := numberPattern.FindString(strings.ReplaceAll(t, ",", ""))
		if match == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(match, 64)
		return n, err == nil && isFinite(n)
	default:
		return 0, false
	}
}

func isFinite(n float64) bool {
	return !math.IsInf(n, 0) && !math.IsNaN(n)
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "required":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}

func coerceStrings(v any) []string {
	var items []string
	switch t := v.(type) {
	case string:
		items = []string{t}
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				items = append(items, s)
			}
		}
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		clean := strings.TrimSpace(item)
		if clean == "" || IsPlaceholder(clean) {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	return out
}

func coercePhrases(v any) []LocalPhrase {
	items, _ := v.([]any)
	out := make([]LocalPhrase, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		phrase := LocalPhrase{
			English:       strings.TrimSpace(asString(pick(m, "english", "phrase"))),
			Local:         strings.TrimSpace(asString(pick(m, "local", "translation"))),
			Pronunciation: strings.TrimSpace(asString(pick(m, "pronunciation"))),
		}
		if phrase.English == "" || phrase.Local == "" {
			continue
		}
		out = append(out, phrase)
	}
	return out
}
