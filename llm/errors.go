// ABOUTME: Structured error types for the model gateway layer.
// ABOUTME: GatewayError is the base; ProviderError and ConfigurationError specialize it.
package llm

import "encoding/json"

// GatewayError is the base error type for the gateway layer. Other gateway
// error types embed it.
type GatewayError struct {
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// ProviderError is an error returned by a provider's API, carrying the HTTP
// status and the raw response body for diagnosis.
type ProviderError struct {
	GatewayError
	Provider   string
	StatusCode int
	Raw        json.RawMessage
}

func (e *ProviderError) Error() string { return e.GatewayError.Error() }
func (e *ProviderError) Unwrap() error { return e.GatewayError.Unwrap() }

// As enables errors.As to match the embedded GatewayError.
func (e *ProviderError) As(target any) bool {
	if t, ok := target.(**GatewayError); ok {
		*t = &e.GatewayError
		return true
	}
	return false
}

// ConfigurationError indicates the gateway cannot be constructed or used as
// configured (missing API key, unknown provider).
type ConfigurationError struct {
	GatewayError
}

func (e *ConfigurationError) Error() string { return e.GatewayError.Error() }
func (e *ConfigurationError) Unwrap() error { return e.GatewayError.Unwrap() }

func (e *ConfigurationError) As(target any) bool {
	if t, ok := target.(**GatewayError); ok {
		*t = &e.GatewayError
		return true
	}
	return false
}
