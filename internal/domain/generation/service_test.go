package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGenerateSuccessAppliesSampling(t *testing.T) {
	backend := &stubBackend{text: `{"days":[]}`}
	svc := newTestService(Config{Temperature: 0.2, TopP: 0.5, MaxTokens: 800, Stop: []string{"\n\n\n"}}, backend)

	text, err := svc.Generate(context.Background(), Request{System: "sys", Prompt: "plan", JSON: true})
	require.NoError(t, err)
	require.Equal(t, `{"days":[]}`, text)
	require.Equal(t, 1, backend.pings)
	require.Equal(t, Completion{
		System:      "sys",
		Prompt:      "plan",
		Temperature: 0.2,
		TopP:        0.5,
		MaxTokens:   800,
		Stop:        []string{"\n\n\n"},
		JSON:        true,
	}, backend.last)
}

func TestGenerateFailureKinds(t *testing.T) {
	cases := []struct {
		name    string
		backend *stubBackend
		want    FailureKind
	}{
		{"probe failure short-circuits", &stubBackend{pingErr: errors.New("connection refused")}, FailureUnavailable},
		{"status error", &stubBackend{err: &StatusError{StatusCode: 500, Body: "oops"}}, FailureHTTP},
		{"empty response", &stubBackend{text: "  \n"}, FailureEmpty},
		{"deadline", &stubBackend{err: context.DeadlineExceeded}, FailureTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(Config{}, tc.backend)
			_, err := svc.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			kind, ok := KindOf(err)
			require.True(t, ok)
			require.Equal(t, tc.want, kind)
			if tc.want == FailureUnavailable {
				require.Zero(t, tc.backend.completes)
			}
		})
	}
}

func TestGenerateCancelsSlowBackend(t *testing.T) {
	backend := &stubBackend{block: true}
	svc := newTestService(Config{Timeout: 30 * time.Millisecond}, backend)

	began := time.Now()
	_, err := svc.Generate(context.Background(), Request{Prompt: "x"})
	require.Less(t, time.Since(began), time.Second)
	kind, _ := KindOf(err)
	require.Equal(t, FailureTimeout, kind)
}

func TestDiagnose(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		svc := newTestService(Config{}, &stubBackend{text: `{"ok":true}`})
		report := svc.Diagnose(context.Background())
		require.True(t, report.Passed)
		require.Len(t, report.Checks, 2)
		require.Equal(t, `{"ok":true}`, report.Checks[1].Detail)
	})
	t.Run("probe down", func(t *testing.T) {
		svc := newTestService(Config{}, &stubBackend{pingErr: errors.New("model llama3 not loaded")})
		report := svc.Diagnose(context.Background())
		require.False(t, report.Passed)
		require.Contains(t, report.Checks[0].Detail, "not loaded")
		require.Equal(t, "skipped: probe failed", report.Checks[1].Detail)
	})
}

func newTestService(cfg Config, backend Backend) Service {
	return NewService(cfg, backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubBackend struct {
	pingErr   error
	text      string
	err       error
	block     bool
	pings     int
	completes int
	last      Completion
}

func (s *stubBackend) Name() string  { return "stub" }
func (s *stubBackend) Model() string { return "stub-model" }

func (s *stubBackend) Ping(ctx context.Context) error {
	s.pings++
	return s.pingErr
}

func (s *stubBackend) Complete(ctx context.Context, c Completion) (string, error) {
	s.completes++
	s.last = c
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "Sagrada Fam...", truncate("Sagrada Família", 11))
	got := truncate("東京タワーと浅草寺", 4)
	require.Equal(t, "東京タワ...", got)
	require.True(t, utf8.ValidString(got))
}
