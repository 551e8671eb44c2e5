package ai

import (
	"context"
	"fmt"
)

// FailureKind classifies why a generation attempt produced no usable text.
type FailureKind string

const (
	// FailureUnconfigured means no provider credentials were supplied; the
	// adapter never became available.
	FailureUnconfigured FailureKind = "unconfigured"
	// FailureTransport covers network errors, timeouts, and 5xx/429 responses.
	FailureTransport FailureKind = "transport"
	// FailureMalformed means the service answered but the response carried no
	// usable text.
	FailureMalformed FailureKind = "malformed"
)

// GenerationError is the typed failure returned by TextGenerator.Generate.
// Stages match on Kind to select their deterministic fallback; they never
// retry.
type GenerationError struct {
	Kind FailureKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("generation failed (%s)", e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// TextGenerator is the boundary to the external text-generation service.
// Stages check Available before formatting a prompt so an unconfigured run
// never pays the prompt-building cost.
type TextGenerator interface {
	// Available reports whether a generation attempt is worth making right
	// now. It is false when the provider is unconfigured and while the
	// circuit breaker is open.
	Available() bool
	// Generate performs exactly one request and returns the raw response
	// text plus token usage when the provider reports it. On failure the
	// error is a *GenerationError.
	Generate(ctx context.Context, prompt string) (string, *TokenUsage, error)
	// GetModelInfo checks readiness of the configured model, for health checks.
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the backing model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from generation responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
