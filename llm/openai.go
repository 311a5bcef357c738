// ABOUTME: OpenAI gateway adapter using the official SDK's Chat Completions client.
// ABOUTME: Supports custom base URLs for OpenAI-compatible providers.
package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-5.2"

// OpenAIAdapter implements Gateway using the OpenAI Chat Completions API.
// A custom base URL makes it work against OpenAI-compatible providers
// (OpenRouter, Cerebras, gateways).
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

// OpenAIOption is a functional option for configuring an OpenAIAdapter.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	model   string
	baseURL string
}

// WithOpenAIModel overrides the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		c.model = model
	}
}

// WithOpenAIBaseURL points the client at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// NewOpenAIAdapter creates an OpenAIAdapter with the given API key and options.
func NewOpenAIAdapter(apiKey string, opts ...OpenAIOption) *OpenAIAdapter {
	cfg := openAIConfig{model: defaultOpenAIModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &OpenAIAdapter{
		client: openai.NewClient(clientOpts...),
		model:  cfg.model,
	}
}

// Name returns the provider name "openai".
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Invoke sends the prompt as a user message under the system instruction and
// returns the first choice's content.
func (a *OpenAIAdapter) Invoke(ctx context.Context, systemInstruction, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &GatewayError{Message: "openai request failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
