package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/generation"
)

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"days\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL+"/v1", "gpt-4o-mini")
	require.NoError(t, err)
	text, err := client.Complete(context.Background(), generation.Completion{System: "sys", Prompt: "plan", JSON: true, MaxTokens: 100})
	require.NoError(t, err)
	require.Equal(t, `{"days":[]}`, text)
	require.Equal(t, "gpt-4o-mini", body["model"])
	require.Len(t, body["messages"], 2)
	require.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestCompleteMapsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	client, err := NewClient("sk-test", srv.URL, "")
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), generation.Completion{Prompt: "plan"})
	var statusErr *generation.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(" ", "", "")
	require.Error(t, err)
}
