package itinerary

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/places"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

var barcelonaRequest = TripRequest{
	Destination: "Barcelona",
	StartDate:   "2025-06-01",
	EndDate:     "2025-06-04",
	Budget:      BudgetMid,
	Group:       "couple",
	Interests:   []string{"food", "history"},
}

func barcelonaPlaces() []places.Place {
	return []places.Place{
		{Name: "Sagrada Família", Category: places.CategoryAttractions, EstimatedCostGBP: 26, DurationHours: 2, BookingRequired: true},
		{Name: "Park Güell", Category: places.CategoryAttractions, EstimatedCostGBP: 10, DurationHours: 2},
		{Name: "La Boqueria", Category: places.CategoryRestaurants, EstimatedCostGBP: 15, DurationHours: 1.5},
		{Name: "Cal Pep", Category: places.CategoryRestaurants, EstimatedCostGBP: 45, DurationHours: 2, BookingRequired: true},
		{Name: "Gothic Quarter", Category: places.CategoryCulture, EstimatedCostGBP: 0, DurationHours: 2.5},
		{Name: "Picasso Museum", Category: places.CategoryCulture, EstimatedCostGBP: 12, DurationHours: 2, BookingRequired: true},
	}
}

func TestGenerateFallsBackToRealPlacesWhenUnavailable(t *testing.T) {
	gen := &stubGenerator{err: &generation.Failure{Kind: generation.FailureUnavailable}}
	svc := newTestService(&stubAggregator{places: barcelonaPlaces()}, gen, nil)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.AIPowered)
	require.True(t, res.RealPlaces)
	require.Equal(t, 3, res.Duration)
	require.Equal(t, FidelityRealPlaces, res.Itinerary.Fidelity)
	require.Len(t, res.Itinerary.Days, 3)
	for _, day := range res.Itinerary.Days {
		for _, act := range day.Activities {
			require.GreaterOrEqual(t, act.EstimatedCostGBP, 0)
		}
	}
	require.Equal(t, TotalCost(res.Itinerary), res.Itinerary.TotalEstimatedCostGBP)
	require.Equal(t, "unavailable", res.DebugInfo.GenerationFailure)
	require.Equal(t, FidelityRealPlaces, res.DebugInfo.Tier)
	require.Len(t, res.DebugInfo.Transitions, 1)
	require.Equal(t, 6, res.DebugInfo.PlacesFound)
	require.Contains(t, res.DebugInfo.Timings, "total_ms")
}

func TestGenerateExtendsShortModelOutput(t *testing.T) {
	gen := &stubGenerator{text: `{"days":[{"day_number":1,"activities":[{"time":"10:00","title":"Sagrada Família","estimated_cost_gbp":26}]}]}`}
	svc := newTestService(&stubAggregator{places: barcelonaPlaces()}, gen, nil)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.True(t, res.AIPowered)
	require.Equal(t, FidelityAIExtended, res.Itinerary.Fidelity)
	require.Len(t, res.Itinerary.Days, 3)
	require.Equal(t, 1, res.DebugInfo.AIDays)
	require.Equal(t, 2, res.DebugInfo.ExtendedDays)
	require.Equal(t, 3, res.DebugInfo.PromptDays)
	require.Equal(t, "stub", res.DebugInfo.Provider)
	require.Empty(t, res.DebugInfo.Transitions)
	for _, day := range res.Itinerary.Days[1:] {
		for _, act := range day.Activities {
			require.NotEqual(t, "Sagrada Família", act.Title)
		}
	}
}

func TestGenerateFullModelOutput(t *testing.T) {
	day := `{"activities":[{"time":"10:00","title":"Walk","estimated_cost_gbp":0}]}`
	gen := &stubGenerator{text: `{"days":[` + day + "," + day + "," + day + "," + day + `]}`}
	svc := newTestService(&stubAggregator{}, gen, nil)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.Equal(t, FidelityAIFull, res.Itinerary.Fidelity)
	require.Len(t, res.Itinerary.Days, 3)
	require.Equal(t, 1, res.DebugInfo.TruncatedDays)
	require.False(t, res.RealPlaces)
}

func TestGenerateArchivesUnparseableOutput(t *testing.T) {
	archive := &stubArchive{}
	gen := &stubGenerator{text: "Sorry, I can only answer questions about travel."}
	svc := newTestService(&stubAggregator{places: barcelonaPlaces()}, gen, archive)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.Equal(t, FidelityRealPlaces, res.Itinerary.Fidelity)
	require.NotEmpty(t, res.DebugInfo.NormalizeFailure)
	require.NotEmpty(t, res.DebugInfo.RawArchiveKey)
	require.Equal(t, gen.text, archive.items[res.DebugInfo.RawArchiveKey])
}

func TestGenerateWithoutPlacesIsGeneric(t *testing.T) {
	gen := &stubGenerator{err: &generation.Failure{Kind: generation.FailureTimeout}}
	svc := newTestService(&stubAggregator{}, gen, nil)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, FidelityGeneric, res.Itinerary.Fidelity)
	require.Len(t, res.Itinerary.Days, 3)
	require.Equal(t, "timeout", res.DebugInfo.GenerationFailure)
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	svc := newTestService(&stubAggregator{panics: true}, &stubGenerator{text: "{}"}, nil)

	res, err := svc.Generate(context.Background(), barcelonaRequest)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, FidelityGeneric, res.Itinerary.Fidelity)
	require.Len(t, res.Itinerary.Days, 3)
	require.Contains(t, res.ErrorDetails, "places backend exploded")
}

func TestGenerateCapsPromptDays(t *testing.T) {
	gen := &stubGenerator{err: &generation.Failure{Kind: generation.FailureEmpty}}
	svc := newTestService(&stubAggregator{places: barcelonaPlaces()}, gen, nil)
	req := barcelonaRequest
	req.EndDate = "2025-06-11"

	res, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Itinerary.Days, 10)
	require.Equal(t, 3, res.DebugInfo.PromptDays)
	require.Contains(t, gen.lastPrompt, "Plan 3 day(s) in Barcelona")
	require.Contains(t, gen.lastPrompt, "Sagrada Família")
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&stubAggregator{}, &stubGenerator{}, nil)
	cases := map[string]func(*TripRequest){
		"missing destination": func(r *TripRequest) { r.Destination = " " },
		"end before start":    func(r *TripRequest) { r.EndDate = "2025-05-30" },
		"same day":            func(r *TripRequest) { r.EndDate = r.StartDate },
		"bad date":            func(r *TripRequest) { r.StartDate = "01/06/2025" },
		"unknown budget":      func(r *TripRequest) { r.Budget = "infinite" },
		"too long":            func(r *TripRequest) { r.EndDate = "2025-08-01" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := barcelonaRequest
			mutate(&req)
			_, err := svc.Generate(context.Background(), req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
		})
	}
}

func TestValidateRequestMessages(t *testing.T) {
	_, err := ValidateRequest(TripRequest{StartDate: "2025-06-01", EndDate: "2025-06-02"}, 0)
	require.Equal(t, "destination is required", apperrors.MessageOf(err))

	req := barcelonaRequest
	req.EndDate = "2025-06-01"
	_, err = ValidateRequest(req, 0)
	require.Equal(t, "endDate must be after startDate", apperrors.MessageOf(err))

	trip, err := ValidateRequest(TripRequest{Destination: " Lisbon ", StartDate: "2025-06-01", EndDate: "2025-06-02", Interests: []string{" Food", "food", ""}}, 0)
	require.NoError(t, err)
	require.Equal(t, "Lisbon", trip.Request.Destination)
	require.Equal(t, BudgetMid, trip.Request.Budget)
	require.Equal(t, "solo", trip.Request.Group)
	require.Equal(t, []string{"food"}, trip.Request.Interests)
	require.Equal(t, 1, trip.Days)
}

func newTestService(aggregator PlaceAggregator, generator Generator, archive RawArchive) Service {
	return NewService(Config{}, aggregator, generator, archive, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubAggregator struct {
	places []places.Place
	panics bool
}

func (s *stubAggregator) Aggregate(ctx context.Context, destination string, interests []string) []places.Place {
	if s.panics {
		panic("places backend exploded")
	}
	return s.places
}

type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	s.lastPrompt = req.Prompt
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubGenerator) Describe() generation.Info {
	return generation.Info{Provider: "stub", Model: "stub-model"}
}

type stubArchive struct {
	mu    sync.Mutex
	items map[string]string
}

func (s *stubArchive) Put(ctx context.Context, key string, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]string)
	}
	s.items[key] = strings.Clone(raw)
	return nil
}
