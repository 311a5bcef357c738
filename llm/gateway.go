// ABOUTME: Gateway interface for the generation pipeline's model calls plus env-based detection.
// ABOUTME: A gateway takes a fixed system instruction and a prompt and returns raw text.
package llm

import (
	"context"
	"os"
)

// Gateway is the model boundary the generation pipeline talks to: one fixed
// system instruction, one prompt, raw text back. The pipeline treats the
// returned text as untrusted; an empty string is a valid (failed) result for
// the caller to reject.
type Gateway interface {
	// Invoke sends the prompt under the given system instruction and
	// returns the model's raw text output.
	Invoke(ctx context.Context, systemInstruction, prompt string) (string, error)

	// Name identifies the backing provider, for logs.
	Name() string
}

// FromEnv creates a Gateway by detecting API keys in the environment.
// GEMINI_API_KEY is preferred, then OPENAI_API_KEY. An empty model selects
// each adapter's default. Returns a ConfigurationError when no key is found.
func FromEnv(model string) (Gateway, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		var opts []GeminiOption
		if model != "" {
			opts = append(opts, WithGeminiModel(model))
		}
		return NewGeminiAdapter(key, opts...), nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		var opts []OpenAIOption
		if model != "" {
			opts = append(opts, WithOpenAIModel(model))
		}
		return NewOpenAIAdapter(key, opts...), nil
	}
	return nil, &ConfigurationError{
		GatewayError: GatewayError{
			Message: "no API keys found in environment (checked GEMINI_API_KEY, OPENAI_API_KEY)",
		},
	}
}
