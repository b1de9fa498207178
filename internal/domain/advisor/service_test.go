package advisor

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/generation"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

func TestChatUsesGeneratedAnswer(t *testing.T) {
	gen := &stubGenerator{text: `Response: {"response":"Try the Boqueria market before noon.","suggestions":["Best tapas bars?","...","Where to eat paella?","Late dinners?","Extra"]}`}
	svc := newTestService(gen)

	res, err := svc.Chat(context.Background(), Request{
		Message: "Where should I eat?",
		ConversationHistory: []Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello! How can I help?"},
		},
		UserProfile: Profile{Destination: "Barcelona", Budget: "mid"},
	})
	require.NoError(t, err)
	require.True(t, res.AIPowered)
	require.Equal(t, "Try the Boqueria market before noon.", res.Response)
	require.Equal(t, []string{"Best tapas bars?", "Where to eat paella?", "Late dinners?"}, res.Suggestions)
	require.Contains(t, gen.last.Prompt, "Advisor: Hello! How can I help?")
	require.Contains(t, gen.last.Prompt, "Traveller: Where should I eat?")
	require.Contains(t, gen.last.System, "Barcelona")
}

func TestChatFallsBackToRuleTable(t *testing.T) {
	cases := []struct {
		message string
		rule    string
	}{
		{"How much money do I need?", "budget"},
		{"Any vegetarian restaurants?", "food"},
		{"What's the weather like in June?", "weather"},
		{"Is the metro easy to use?", "transport"},
		{"Are there pickpockets?", "safety"},
		{"Do I need a visa?", "documents"},
		{"Help me plan tomorrow", "itinerary"},
		{"Hello there", "general"},
	}
	svc := newTestService(&stubGenerator{err: &generation.Failure{Kind: generation.FailureUnavailable}})
	for _, tc := range cases {
		t.Run(tc.rule, func(t *testing.T) {
			require.Equal(t, tc.rule, matchRule(tc.message).name)

			res, err := svc.Chat(context.Background(), Request{Message: tc.message, UserProfile: Profile{Destination: "Lisbon"}})
			require.NoError(t, err)
			require.True(t, res.Success)
			require.False(t, res.AIPowered)
			require.Contains(t, res.Response, "Lisbon")
			require.NotEmpty(t, res.Suggestions)
		})
	}
}

func TestChatRejectsUnusableAnswers(t *testing.T) {
	for _, raw := range []string{`{"suggestions":["a"]}`, `{"response":"Your response here"}`, "no json at all"} {
		svc := newTestService(&stubGenerator{text: raw})
		res, err := svc.Chat(context.Background(), Request{Message: "Is it safe at night?"})
		require.NoError(t, err)
		require.False(t, res.AIPowered, raw)
		require.Contains(t, res.Response, "your destination")
	}
}

func TestChatValidatesMessage(t *testing.T) {
	svc := newTestService(&stubGenerator{})
	_, err := svc.Chat(context.Background(), Request{Message: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestBuildPromptKeepsRecentTurns(t *testing.T) {
	svc := NewService(Config{HistoryTurns: 2}, &stubGenerator{}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	prompt := svc.buildPrompt("next?", []Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
	})
	require.NotContains(t, prompt, "first")
	require.Contains(t, prompt, "Advisor: second")
	require.Contains(t, prompt, "Traveller: third")
}

func newTestService(gen *stubGenerator) Service {
	return NewService(Config{}, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubGenerator struct {
	text string
	err  error
	last generation.Request
}

func (s *stubGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubGenerator) Describe() generation.Info {
	return generation.Info{Provider: "stub"}
}
