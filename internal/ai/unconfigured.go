package ai

import "context"

// UnconfiguredGenerator is the adapter used when no API key is present.
// Every call reports the unconfigured failure kind so stages go straight to
// their deterministic fallbacks.
type UnconfiguredGenerator struct{}

var _ TextGenerator = (*UnconfiguredGenerator)(nil)

func (UnconfiguredGenerator) Available() bool { return false }

func (UnconfiguredGenerator) Generate(ctx context.Context, prompt string) (string, *TokenUsage, error) {
	return "", nil, &GenerationError{Kind: FailureUnconfigured}
}

func (UnconfiguredGenerator) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{
		Name:      "none",
		Available: false,
		Error:     "generation service not configured",
	}
}

func (UnconfiguredGenerator) Close() error { return nil }
