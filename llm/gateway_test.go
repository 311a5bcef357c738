// ABOUTME: Tests for environment-based gateway detection.
// ABOUTME: Verifies provider preference order and the no-keys configuration error.
package llm

import (
	"errors"
	"testing"
)

func TestFromEnvPrefersGemini(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	gw, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if gw.Name() != "gemini" {
		t.Errorf("provider = %q, want gemini", gw.Name())
	}
}

func TestFromEnvFallsBackToOpenAI(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "o-key")

	gw, err := FromEnv("gpt-test")
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if gw.Name() != "openai" {
		t.Errorf("provider = %q, want openai", gw.Name())
	}
}

func TestFromEnvNoKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := FromEnv("")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error %T is not a ConfigurationError", err)
	}
}
