package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/trip-planner/internal/domain/generation"
)

const defaultModel = openai.GPT4oMini

// Client is a generation backend for OpenAI compatible chat APIs.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient constructs a client. baseURL may point at any OpenAI compatible server.
func NewClient(apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (c *Client) Name() string  { return "openai" }
func (c *Client) Model() string { return c.model }

// Ping retrieves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.GetModel(ctx, c.model); err != nil {
		return statusError(err)
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, in generation.Completion) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if in.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: in.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: in.Prompt})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: in.Temperature,
		TopP:        in.TopP,
		MaxTokens:   in.MaxTokens,
		Stop:        in.Stop,
	}
	if in.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", statusError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func statusError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return fmt.Errorf("openai: %w", &generation.StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return fmt.Errorf("openai: %w", &generation.StatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()})
	}
	return fmt.Errorf("openai: %w", err)
}

var _ generation.Backend = (*Client)(nil)
