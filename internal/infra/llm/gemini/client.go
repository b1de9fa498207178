package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/trip-planner/internal/domain/generation"
)

const defaultModel = "gemini-2.0-flash"

// Client is a generation backend for the Gemini API.
type Client struct {
	api   *genai.Client
	model string
}

// NewClient constructs a Gemini client. An empty baseURL uses the public endpoint.
func NewClient(ctx context.Context, apiKey, baseURL, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(baseURL) != "" {
		cfg.HTTPOptions.BaseURL = strings.TrimRight(baseURL, "/") + "/"
	}
	api, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{api: api, model: model}, nil
}

func (c *Client) Name() string  { return "gemini" }
func (c *Client) Model() string { return c.model }

// Ping fetches the model metadata.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Models.Get(ctx, c.model, nil); err != nil {
		return fmt.Errorf("gemini get model %s: %w", c.model, statusError(err))
	}
	return nil
}

func (c *Client) Complete(ctx context.Context, in generation.Completion) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(in.Temperature),
	}
	if in.TopP > 0 {
		config.TopP = genai.Ptr(in.TopP)
	}
	if in.MaxTokens > 0 {
		config.MaxOutputTokens = int32(in.MaxTokens)
	}
	if len(in.Stop) > 0 {
		config.StopSequences = in.Stop
	}
	if in.System != "" {
		config.SystemInstruction = genai.NewContentFromText(in.System, genai.RoleUser)
	}
	if in.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model, []*genai.Content{
		genai.NewContentFromText(in.Prompt, genai.RoleUser),
	}, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", statusError(err))
	}
	return resp.Text(), nil
}

func statusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return &generation.StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code > 0 {
		return &generation.StatusError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}

var _ generation.Backend = (*Client)(nil)
