package itinerary

import (
	"time"

	"github.com/yanqian/trip-planner/pkg/util"
)

// Fidelity tags which tier produced an itinerary.
type Fidelity string

const (
	FidelityAIFull     Fidelity = "ai-full"
	FidelityAIExtended Fidelity = "ai-extended"
	FidelityRealPlaces Fidelity = "real-places-sample"
	FidelityGeneric    Fidelity = "generic-sample"
)

// CurrencyGBP is the only currency itineraries are priced in.
const CurrencyGBP = "GBP"

const (
	defaultTripMaxDays   = 30
	defaultPromptMaxDays = 3
)

// ActivityType is the time-of-day slot of an activity.
type ActivityType string

const (
	SlotMorning   ActivityType = "morning"
	SlotAfternoon ActivityType = "afternoon"
	SlotEvening   ActivityType = "evening"
)

// BudgetTier scales template costs.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "budget"
	BudgetMid    BudgetTier = "mid"
	BudgetLuxury BudgetTier = "luxury"
)

// TripRequest is the caller input, validated once by ValidateRequest.
type TripRequest struct {
	Destination   string     `json:"destination" validate:"required,max=120"`
	StartDate     string     `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string     `json:"endDate" validate:"required,datetime=2006-01-02"`
	Budget        BudgetTier `json:"budget" validate:"omitempty,oneof=budget mid luxury"`
	Group         string     `json:"group" validate:"omitempty,oneof=solo couple family friends group business"`
	Interests     []string   `json:"interests" validate:"max=20,dive,max=40"`
	Accessibility []string   `json:"accessibility" validate:"max=20,dive,max=40"`
}

// Trip is a validated request with its resolved date range.
type Trip struct {
	Request TripRequest
	Start   time.Time
	Days    int
}

// DateAt returns the ISO date of the zero-based day offset.
func (t Trip) DateAt(offset int) string {
	return t.Start.AddDate(0, 0, offset).Format(util.DateLayout)
}

// Activity is one timed entry of a day.
type Activity struct {
	ID               string       `json:"id"`
	Time             string       `json:"time"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Location         string       `json:"location"`
	Type             ActivityType `json:"type"`
	Confidence       int          `json:"confidence"`
	EstimatedCostGBP int          `json:"estimated_cost_gbp"`
	DurationHours    float64      `json:"duration_hours"`
	BookingRequired  bool         `json:"booking_required"`
	LocalTip         string       `json:"local_tip,omitempty"`
}

// Day groups the activities of one calendar date.
type Day struct {
	Date       string     `json:"date"`
	DayNumber  int        `json:"day_number"`
	Activities []Activity `json:"activities"`
}

// LocalPhrase is a translated phrase with pronunciation.
type LocalPhrase struct {
	English       string `json:"english"`
	Local         string `json:"local"`
	Pronunciation string `json:"pronunciation"`
}

// Itinerary is the complete multi-day plan.
type Itinerary struct {
	Days                  []Day         `json:"days"`
	TotalEstimatedCostGBP int           `json:"total_estimated_cost_gbp"`
	Currency              string        `json:"currency"`
	TravelTips            []string      `json:"travel_tips"`
	LocalPhrases          []LocalPhrase `json:"local_phrases"`
	Fidelity              Fidelity      `json:"fidelity,omitempty"`
}

// Result is returned by Service.Generate.
type Result struct {
	Success      bool      `json:"success"`
	Itinerary    Itinerary `json:"itinerary"`
	AIPowered    bool      `json:"ai_powered"`
	RealPlaces   bool      `json:"real_places"`
	Duration     int       `json:"duration"`
	DebugInfo    DebugInfo `json:"debug_info"`
	ErrorDetails string    `json:"error_details,omitempty"`
}

// DebugInfo explains how the itinerary was produced.
type DebugInfo struct {
	Tier              Fidelity         `json:"tier"`
	Provider          string           `json:"provider"`
	Model             string           `json:"model"`
	PlacesFound       int              `json:"places_found"`
	RequestedDays     int              `json:"requested_days"`
	PromptDays        int              `json:"prompt_days"`
	AIDays            int              `json:"ai_days"`
	ExtendedDays      int              `json:"extended_days"`
	TruncatedDays     int              `json:"truncated_days,omitempty"`
	GenerationFailure string           `json:"generation_failure,omitempty"`
	NormalizeFailure  string           `json:"normalize_failure,omitempty"`
	RawArchiveKey     string           `json:"raw_archive_key,omitempty"`
	Transitions       []string         `json:"transitions,omitempty"`
	Timings           map[string]int64 `json:"timings"`
}

// Record is a saved itinerary in the current slot or history.
type Record struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	SavedAt     time.Time `json:"saved_at"`
	Itinerary   Itinerary `json:"itinerary"`
}

// Config wires runtime limits of the orchestrator.
type Config struct {
	PromptMaxDays int
	MaxTripDays   int
	PlaceHints    int
}
