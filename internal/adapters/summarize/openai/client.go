package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// requestTimeout bounds every summarization call; an unbounded hang
// would stall a whole refresh run.
const requestTimeout = 120 * time.Second

const maxOutputTokens = 2048

const systemPrompt = "You are an assistant that summarizes coding agent CLI sessions. " +
	"Produce a concise narrative plus structured key actions, files, concerns, " +
	"and concrete follow-ups. Limit key_actions to the top 6 items and files_touched to the top 10 paths. " +
	"Always obey the supplied JSON schema, using empty arrays when appropriate."

type Client struct {
	client *openai.Client
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient builds a summarizer against the OpenAI chat completions API.
// baseURL overrides the default endpoint when non-empty.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("set OPENAI_API_KEY to summarize conversations")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &Client{client: openai.NewClientWithConfig(config)}, nil
}

func (c *Client) Summarize(ctx context.Context, req ports.SummaryRequest) (domain.SummaryPayload, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		MaxTokens: maxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "session_summary",
				Schema: summarySchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return domain.SummaryPayload{}, fmt.Errorf("request summary: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.SummaryPayload{}, errors.New("summarizer returned no choices")
	}

	var payload domain.SummaryPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return domain.SummaryPayload{}, fmt.Errorf("decode summary payload: %w", err)
	}

	return payload, nil
}

// buildUserPrompt assembles the per-session prompt: identity, label,
// recency, an explicit truncation note, and the transcript itself.
func buildUserPrompt(req ports.SummaryRequest) string {
	lines := []string{fmt.Sprintf("Session ID: %s", req.SessionID)}

	if req.Label != "" {
		lines = append(lines, fmt.Sprintf("Label: %s", req.Label))
	}
	if !req.LatestTimestamp.IsZero() {
		lines = append(lines, fmt.Sprintf("Latest message: %s", req.LatestTimestamp.Format(time.RFC3339)))
	}
	if req.Truncated {
		lines = append(lines, fmt.Sprintf(
			"NOTE: Transcript truncated to the most recent %d of %d segments (~%d tokens).",
			req.KeptSegments, req.TotalSegments, req.KeptTokens,
		))
	}

	lines = append(lines, "", "Transcript:", req.Transcript)

	return strings.Join(lines, "\n")
}
