package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/places"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

// Service produces a complete itinerary for every valid request.
type Service interface {
	// Generate returns an error only when the request is invalid.
	Generate(ctx context.Context, req TripRequest) (Result, error)
}

// Generator is the generation adapter used by the orchestrator.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (string, error)
	Describe() generation.Info
}

// PlaceAggregator collects candidate places for a destination.
type PlaceAggregator interface {
	Aggregate(ctx context.Context, destination string, interests []string) []places.Place
}

type service struct {
	cfg       Config
	places    PlaceAggregator
	generator Generator
	archive   RawArchive
	now       func() time.Time
	logger    *slog.Logger
}

// NewService wires the fallback cascade. archive may be nil.
func NewService(cfg Config, aggregator PlaceAggregator, generator Generator, archive RawArchive, logger *slog.Logger) Service {
	if cfg.PromptMaxDays <= 0 {
		cfg.PromptMaxDays = defaultPromptMaxDays
	}
	if cfg.MaxTripDays <= 0 {
		cfg.MaxTripDays = defaultTripMaxDays
	}
	if cfg.PlaceHints <= 0 {
		cfg.PlaceHints = 6
	}
	return &service{
		cfg:       cfg,
		places:    aggregator,
		generator: generator,
		archive:   archive,
		now:       time.Now,
		logger:    logger.With("component", "itinerary.service"),
	}
}

func (s *service) Generate(ctx context.Context, req TripRequest) (Result, error) {
	trip, err := ValidateRequest(req, s.cfg.MaxTripDays)
	if err != nil {
		return Result{}, err
	}

	info := s.generator.Describe()
	timings := metrics.NewTimings(s.now)
	debug := &DebugInfo{
		Provider:      info.Provider,
		Model:         info.Model,
		RequestedDays: trip.Days,
	}

	res := s.run(ctx, trip, debug, timings)
	res.Success = true
	res.Duration = trip.Days
	debug.Tier = res.Itinerary.Fidelity
	debug.Timings = timings.Milliseconds()
	res.DebugInfo = *debug

	s.logger.Info("itinerary generated",
		"destination", trip.Request.Destination,
		"days", trip.Days,
		"tier", res.Itinerary.Fidelity,
		"places", debug.PlacesFound,
		"total_ms", debug.Timings["total_ms"],
	)
	return res, nil
}

// run walks the tiers in decreasing fidelity. A panic anywhere below it yields generic-sample.
func (s *service) run(ctx context.Context, trip Trip, debug *DebugInfo, timings *metrics.Timings) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("unexpected error: %v", r)
			s.logger.Error("itinerary pipeline panicked", "panic", r)
			res = s.generic(trip, debug, string(FidelityAIFull), reason)
			res.ErrorDetails = reason
		}
	}()

	var pool []places.Place
	timings.Track("places", func() {
		pool = s.places.Aggregate(ctx, trip.Request.Destination, trip.Request.Interests)
	})
	debug.PlacesFound = len(pool)

	promptDays := promptDaysFor(trip, s.cfg.PromptMaxDays)
	debug.PromptDays = promptDays
	hints := pool
	if len(hints) > s.cfg.PlaceHints {
		hints = hints[:s.cfg.PlaceHints]
	}

	var (
		raw    string
		genErr error
	)
	timings.Track("generation", func() {
		raw, genErr = s.generator.Generate(ctx, generation.Request{
			System: itinerarySystemPrompt,
			Prompt: buildPrompt(trip, promptDays, hints),
			JSON:   true,
		})
	})
	if genErr != nil {
		kind, ok := generation.KindOf(genErr)
		if !ok {
			kind = generation.FailureHTTP
		}
		debug.GenerationFailure = string(kind)
		return s.fallback(trip, pool, debug, "generation "+string(kind))
	}

	var (
		partial   Itinerary
		truncated int
		normErr   error
	)
	timings.Track("normalize", func() {
		partial, truncated, normErr = normalize(raw, trip)
	})
	if normErr != nil {
		debug.NormalizeFailure = normErr.Error()
		debug.RawArchiveKey = s.archiveRaw(ctx, trip, raw)
		return s.fallback(trip, pool, debug, normErr.Error())
	}
	if truncated > 0 {
		s.logger.Warn("generator returned more days than requested", "truncated", truncated)
	}
	debug.AIDays = len(partial.Days)
	debug.TruncatedDays = truncated

	full, added := Extend(partial, trip, pool)
	debug.ExtendedDays = added
	full.Fidelity = FidelityAIFull
	if added > 0 {
		full.Fidelity = FidelityAIExtended
	}
	return Result{
		Itinerary:  full,
		AIPowered:  true,
		RealPlaces: len(pool) > 0,
	}
}

func (s *service) fallback(trip Trip, pool []places.Place, debug *DebugInfo, reason string) Result {
	if len(pool) == 0 {
		return s.generic(trip, debug, string(FidelityAIFull), reason+"; no places found")
	}
	s.transition(debug, string(FidelityAIFull), FidelityRealPlaces, reason)
	return Result{
		Itinerary:  BuildSample(trip, pool),
		RealPlaces: true,
	}
}

func (s *service) generic(trip Trip, debug *DebugInfo, from, reason string) Result {
	s.transition(debug, from, FidelityGeneric, reason)
	return Result{Itinerary: BuildGeneric(trip)}
}

func (s *service) transition(debug *DebugInfo, from string, to Fidelity, reason string) {
	s.logger.Warn("itinerary tier degraded", "from", from, "to", to, "reason", reason)
	debug.Transitions = append(debug.Transitions, fmt.Sprintf("%s -> %s: %s", from, to, reason))
}

func (s *service) archiveRaw(ctx context.Context, trip Trip, raw string) string {
	if s.archive == nil {
		return ""
	}
	key := fmt.Sprintf("raw/%s/%s.txt", s.now().UTC().Format("2006/01/02"), uuid.NewString())
	if err := s.archive.Put(ctx, key, raw); err != nil {
		s.logger.Warn("archive raw generator output failed", "destination", trip.Request.Destination, "error", err)
		return ""
	}
	return key
}
