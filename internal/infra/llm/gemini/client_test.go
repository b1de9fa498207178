package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/generation"
)

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		require.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"days\":[]}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "g-key", srv.URL, "gemini-test")
	require.NoError(t, err)
	text, err := client.Complete(context.Background(), generation.Completion{
		System:      "sys",
		Prompt:      "plan",
		Temperature: 0.1,
		MaxTokens:   100,
		Stop:        []string{"\n\n\n"},
		JSON:        true,
	})
	require.NoError(t, err)
	require.Equal(t, `{"days":[]}`, text)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	require.Contains(t, body, "systemInstruction")
	cfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "application/json", cfg["responseMimeType"])
	require.Equal(t, []any{"\n\n\n"}, cfg["stopSequences"])
	require.EqualValues(t, 100, cfg["maxOutputTokens"])
}

func TestCompleteMapsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"model not found","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "g-key", srv.URL, "gemini-test")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), generation.Completion{Prompt: "plan"})
	var statusErr *generation.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestNewClientDefaults(t *testing.T) {
	_, err := NewClient(context.Background(), " ", "", "")
	require.Error(t, err)

	client, err := NewClient(context.Background(), "g-key", "", "")
	require.NoError(t, err)
	require.Equal(t, "gemini", client.Name())
	require.Equal(t, defaultModel, client.Model())
}
