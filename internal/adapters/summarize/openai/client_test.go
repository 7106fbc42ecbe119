package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

func newStubServer(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			*capture = req
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func completionBody(t *testing.T, payload domain.SummaryPayload) string {
	t.Helper()

	content, err := json.Marshal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": string(content)}},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient("  ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestSummarizeDecodesStructuredPayload(t *testing.T) {
	t.Parallel()

	want := domain.SummaryPayload{
		Summary: "Fixed the deploy pipeline.",
		KeyActions: []domain.KeyAction{
			{Description: "patched the auth config", Status: domain.ActionCompleted},
		},
		FilesTouched: []string{"deploy/auth.yaml"},
		Concerns:     []string{},
		FollowUp:     []string{"verify staging"},
	}

	var captured map[string]any
	server := newStubServer(t, http.StatusOK, completionBody(t, want), &captured)
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1")
	require.NoError(t, err)

	got, err := client.Summarize(context.Background(), ports.SummaryRequest{
		SessionID:       "0199a213-81ef-74a2-b85d-4b2ff9a82f31",
		Label:           "Deploy debugging",
		Model:           "gpt-5",
		Transcript:      "USER_MESSAGE:\nplease fix it",
		Truncated:       true,
		KeptTokens:      1200,
		TotalSegments:   10,
		KeptSegments:    4,
		LatestTimestamp: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Equal(t, "gpt-5", captured["model"])

	format, ok := captured["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "session_summary", schema["name"])
	assert.Equal(t, true, schema["strict"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user, ok := messages[1].(map[string]any)
	require.True(t, ok)
	prompt, _ := user["content"].(string)
	assert.Contains(t, prompt, "Session ID: 0199a213-81ef-74a2-b85d-4b2ff9a82f31")
	assert.Contains(t, prompt, "Label: Deploy debugging")
	assert.Contains(t, prompt, "Latest message: 2026-08-29T10:00:00Z")
	assert.Contains(t, prompt, "NOTE: Transcript truncated to the most recent 4 of 10 segments (~1200 tokens).")
	assert.Contains(t, prompt, "USER_MESSAGE:\nplease fix it")
}

func TestSummarizePropagatesAPIErrors(t *testing.T) {
	t.Parallel()

	server := newStubServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"rate limited","type":"rate_limit_error"}}`, nil)
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1")
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), ports.SummaryRequest{Model: "gpt-5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request summary")
}

func TestSummarizeRejectsMalformedContent(t *testing.T) {
	t.Parallel()

	body := `{"choices":[{"message":{"role":"assistant","content":"not json"}}]}`
	server := newStubServer(t, http.StatusOK, body, nil)
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1")
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), ports.SummaryRequest{Model: "gpt-5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode summary payload")
}

func TestSummarizeRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	server := newStubServer(t, http.StatusOK, `{"choices":[]}`, nil)
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1")
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), ports.SummaryRequest{Model: "gpt-5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
