package activityswap

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

// Service replaces a single activity, keeping its slot.
type Service interface {
	Swap(ctx context.Context, req Request) (Response, error)
}

type service struct {
	generator itinerary.Generator
	pick      func(n int) int
	newID     func() string
	logger    *slog.Logger
}

// NewService wires the swap adapter.
func NewService(generator itinerary.Generator, logger *slog.Logger) Service {
	return &service{
		generator: generator,
		pick:      rand.IntN,
		newID:     uuid.NewString,
		logger:    logger.With("component", "activityswap.service"),
	}
}

func (s *service) Swap(ctx context.Context, req Request) (Response, error) {
	current := req.CurrentActivity
	if current.ID == "" {
		current.ID = strings.TrimSpace(req.ActivityID)
	}
	if strings.TrimSpace(current.Title) == "" && current.ID == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "currentActivity is required", nil)
	}
	destination := strings.TrimSpace(req.UserPreferences.Destination)
	if destination == "" {
		destination = strings.TrimSpace(current.Location)
	}

	replacement, err := s.generate(ctx, current, req.UserPreferences, destination)
	if err == nil {
		return Response{Success: true, NewActivity: s.finish(replacement, current), AIPowered: true}, nil
	}
	s.logger.Warn("swap generation failed, using curated alternative", "activity", current.ID, "error", err)
	return Response{Success: true, NewActivity: s.finish(s.curated(current, destination), current)}, nil
}

func (s *service) generate(ctx context.Context, current itinerary.Activity, prefs Preferences, destination string) (itinerary.Activity, error) {
	raw, err := s.generator.Generate(ctx, generation.Request{
		System:    "You suggest travel activities. Reply with a single JSON object and nothing else.",
		Prompt:    buildPrompt(current, prefs, destination),
		MaxTokens: 400,
		JSON:      true,
	})
	if err != nil {
		return itinerary.Activity{}, err
	}
	obj, err := itinerary.RepairObject(raw, "activities")
	if err != nil {
		return itinerary.Activity{}, err
	}
	candidate := unwrap(obj)
	if !hasKey(candidate, "title", "name") {
		return itinerary.Activity{}, &itinerary.NormalizeError{Stage: itinerary.StageValidate, Err: fmt.Errorf("activity has no title")}
	}
	act := itinerary.CoerceActivity(candidate, destination)
	if itinerary.IsPlaceholder(act.Title) || itinerary.IsPlaceholder(act.Description) {
		return itinerary.Activity{}, &itinerary.NormalizeError{Stage: itinerary.StageValidate, Err: fmt.Errorf("placeholder activity %q", act.Title)}
	}
	if strings.EqualFold(strings.TrimSpace(act.Title), strings.TrimSpace(current.Title)) {
		return itinerary.Activity{}, &itinerary.NormalizeError{Stage: itinerary.StageValidate, Err: fmt.Errorf("replacement repeats %q", act.Title)}
	}
	return act, nil
}

func (s *service) curated(current itinerary.Activity, destination string) itinerary.Activity {
	candidates := make([]alternative, 0, len(curatedAlternatives))
	for _, alt := range curatedAlternatives {
		if !strings.EqualFold(alt.title, strings.TrimSpace(current.Title)) {
			candidates = append(candidates, alt)
		}
	}
	alt := candidates[s.pick(len(candidates))]
	location := current.Location
	if location == "" {
		location = destination
	}
	return itinerary.Activity{
		Title:            alt.title,
		Description:      alt.description,
		Location:         location,
		Confidence:       75,
		EstimatedCostGBP: alt.cost,
		DurationHours:    alt.hours,
		BookingRequired:  alt.booking,
		LocalTip:         alt.tip,
	}
}

// finish pins the replacement to the original slot and gives it a fresh id.
func (s *service) finish(act, current itinerary.Activity) itinerary.Activity {
	act.Time = current.Time
	act.Type = current.Type
	act.ID = s.newID()
	for act.ID == current.ID {
		act.ID = s.newID()
	}
	return act
}

func buildPrompt(current itinerary.Activity, prefs Preferences, destination string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest one alternative %s activity in %s to replace %q at %s.\n",
		current.Type, destination, current.Title, current.Location)
	fmt.Fprintf(&b, "Keep the cost near £%d and the duration near %.1f hours.\n", current.EstimatedCostGBP, current.DurationHours)
	if prefs.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s.\n", prefs.Budget)
	}
	if len(prefs.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(prefs.Interests, ", "))
	}
	b.WriteString(`Return JSON: {"title":"...","description":"...","location":"...","estimated_cost_gbp":0,"duration_hours":0,"booking_required":false,"local_tip":"..."}`)
	return b.String()
}

// unwrap accepts {"activity":{...}}, {"activities":[{...}]} or the bare object.
func unwrap(obj map[string]any) map[string]any {
	for k, v := range obj {
		switch strings.ToLower(k) {
		case "activity", "newactivity", "new_activity":
			if m, ok := v.(map[string]any); ok {
				return m
			}
		case "activities":
			if list, ok := v.([]any); ok && len(list) > 0 {
				if m, ok := list[0].(map[string]any); ok {
					return m
				}
			}
		}
	}
	return obj
}

func hasKey(m map[string]any, names ...string) bool {
	for k, v := range m {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(k, name) {
				return true
			}
		}
	}
	return false
}
