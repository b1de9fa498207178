package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/generation"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

// Service answers free-form travel questions.
type Service interface {
	Chat(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg       Config
	generator itinerary.Generator
	logger    *slog.Logger
}

// NewService wires up the chat advisor.
func NewService(cfg Config, generator itinerary.Generator, logger *slog.Logger) Service {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 6
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 3
	}
	if cfg.MaxMessageLen <= 0 {
		cfg.MaxMessageLen = 2000
	}
	return &service{cfg: cfg, generator: generator, logger: logger.With("component", "advisor.service")}
}

func (s *service) Chat(ctx context.Context, req Request) (Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}
	if len(message) > s.cfg.MaxMessageLen {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("message exceeds %d characters", s.cfg.MaxMessageLen), nil)
	}

	raw, err := s.generator.Generate(ctx, generation.Request{
		System:    s.buildSystemPrompt(req.UserProfile),
		Prompt:    s.buildPrompt(message, req.ConversationHistory),
		MaxTokens: 500,
		JSON:      true,
	})
	if err == nil {
		answer, suggestions, parseErr := parseAnswer(raw, s.cfg.MaxSuggestions)
		if parseErr == nil {
			if len(suggestions) == 0 {
				suggestions = matchRule(message).suggestions
			}
			return Response{Success: true, Response: answer, Suggestions: suggestions, AIPowered: true}, nil
		}
		err = parseErr
	}

	r := matchRule(message)
	s.logger.Warn("chat generation failed, using canned answer", "rule", r.name, "error", err)
	return Response{
		Success:     true,
		Response:    strings.ReplaceAll(r.response, "{destination}", destinationOf(req.UserProfile)),
		Suggestions: append([]string(nil), r.suggestions...),
	}, nil
}

func (s *service) buildSystemPrompt(profile Profile) string {
	var b strings.Builder
	b.WriteString("You are a friendly, concise travel advisor.")
	if d := strings.TrimSpace(profile.Destination); d != "" {
		fmt.Fprintf(&b, " The traveller is going to %s.", d)
	}
	if profile.Budget != "" {
		fmt.Fprintf(&b, " Their budget is %s.", profile.Budget)
	}
	if profile.Group != "" {
		fmt.Fprintf(&b, " They travel as %s.", profile.Group)
	}
	if len(profile.Interests) > 0 {
		fmt.Fprintf(&b, " Interests: %s.", strings.Join(profile.Interests, ", "))
	}
	b.WriteString(` Reply with JSON only: {"response":"...","suggestions":["..."]}`)
	return b.String()
}

func (s *service) buildPrompt(message string, history []Message) string {
	if len(history) > s.cfg.HistoryTurns {
		history = history[len(history)-s.cfg.HistoryTurns:]
	}
	var b strings.Builder
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		role := "Traveller"
		if strings.EqualFold(turn.Role, "assistant") || strings.EqualFold(turn.Role, "advisor") {
			role = "Advisor"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, content)
	}
	fmt.Fprintf(&b, "Traveller: %s\n", message)
	return b.String()
}

func parseAnswer(raw string, limit int) (string, []string, error) {
	obj, err := itinerary.RepairObject(raw, "suggestions")
	if err != nil {
		return "", nil, err
	}
	answer, _ := obj["response"].(string)
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", nil, &itinerary.NormalizeError{Stage: itinerary.StageValidate, Err: errors.New("missing response")}
	}
	if itinerary.IsPlaceholder(answer) {
		return "", nil, &itinerary.NormalizeError{Stage: itinerary.StageValidate, Err: errors.New("placeholder response")}
	}

	var suggestions []string
	list, _ := obj["suggestions"].([]any)
	for _, item := range list {
		text, ok := item.(string)
		text = strings.TrimSpace(text)
		if !ok || text == "" || itinerary.IsPlaceholder(text) {
			continue
		}
		suggestions = append(suggestions, text)
		if len(suggestions) == limit {
			break
		}
	}
	return answer, suggestions, nil
}

func destinationOf(profile Profile) string {
	if d := strings.TrimSpace(profile.Destination); d != "" {
		return d
	}
	return "your destination"
}
