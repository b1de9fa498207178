package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/yanqian/trip-planner/internal/domain/generation"
)

const (
	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 2048
)

// Client is a generation backend for the Anthropic Messages API.
type Client struct {
	api   anthropic.Client
	model string
}

// NewClient constructs a client. baseURL is optional.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic api key cannot be empty")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{api: anthropic.NewClient(opts...), model: model}, nil
}

func (c *Client) Name() string  { return "anthropic" }
func (c *Client) Model() string { return c.model }

// Ping retrieves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Models.Get(ctx, c.model, anthropic.ModelGetParams{}); err != nil {
		return statusError(err)
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, in generation.Completion) (string, error) {
	maxTokens := in.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.Prompt)),
		},
		Temperature: anthropic.Float(float64(in.Temperature)),
	}
	if in.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.System}}
	}
	for _, stop := range in.Stop {
		// The API rejects whitespace-only stop sequences.
		if strings.TrimSpace(stop) != "" {
			params.StopSequences = append(params.StopSequences, stop)
		}
	}

	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", statusError(err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func statusError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return fmt.Errorf("anthropic: %w", &generation.StatusError{StatusCode: apiErr.StatusCode, Body: apiErr.Error()})
	}
	return fmt.Errorf("anthropic: %w", err)
}

var _ generation.Backend = (*Client)(nil)
