// ABOUTME: Gemini gateway adapter using the native generateContent endpoint.
// ABOUTME: Query-parameter auth, systemInstruction passthrough, text-only responses.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiModel = "gemini-flash-latest"

// GeminiAdapter implements Gateway against Google's Gemini API. It uses
// query-parameter authentication and the non-streaming generateContent
// endpoint; only text parts of the first candidate are returned.
type GeminiAdapter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// GeminiOption is a functional option for configuring a GeminiAdapter.
type GeminiOption func(*GeminiAdapter)

// WithGeminiBaseURL overrides the API base URL (mainly for tests).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(a *GeminiAdapter) {
		a.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(a *GeminiAdapter) {
		a.model = model
	}
}

// WithGeminiHTTPClient overrides the HTTP client.
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(a *GeminiAdapter) {
		a.httpClient = c
	}
}

// NewGeminiAdapter creates a GeminiAdapter with the given API key and options.
func NewGeminiAdapter(apiKey string, opts ...GeminiOption) *GeminiAdapter {
	a := &GeminiAdapter{
		apiKey:  apiKey,
		baseURL: "https://generativelanguage.googleapis.com",
		model:   defaultGeminiModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the provider name "gemini".
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// geminiResponse is the subset of the generateContent response we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Invoke sends the prompt with the system instruction and returns the
// concatenated text parts of the first candidate.
func (a *GeminiAdapter) Invoke(ctx context.Context, systemInstruction, prompt string) (string, error) {
	body := map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]any{{"text": systemInstruction}},
		},
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": prompt}},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &GatewayError{Message: "gemini request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			GatewayError: GatewayError{
				Message: fmt.Sprintf("gemini returned status %d", resp.StatusCode),
			},
			Provider:   "gemini",
			StatusCode: resp.StatusCode,
			Raw:        json.RawMessage(respBody),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	var sb strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
