package observability

import (
	"context"

	"talentnav/internal/ai"
)

// InstrumentedGenerator decorates a TextGenerator with AI operation metrics:
// request counts, processing time, error counts, and token usage when the
// provider reports it. The inner generator keeps its own tracing spans.
type InstrumentedGenerator struct {
	inner     ai.TextGenerator
	operation string
	om        *ObservabilityManager
}

var _ ai.TextGenerator = (*InstrumentedGenerator)(nil)

// NewInstrumentedGenerator wraps a generator for one pipeline operation.
// A nil manager returns the generator unwrapped.
func NewInstrumentedGenerator(inner ai.TextGenerator, operation string, om *ObservabilityManager) ai.TextGenerator {
	if om == nil {
		return inner
	}
	return &InstrumentedGenerator{inner: inner, operation: operation, om: om}
}

func (g *InstrumentedGenerator) Available() bool { return g.inner.Available() }

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (string, *ai.TokenUsage, error) {
	var (
		text  string
		usage *ai.TokenUsage
	)

	metrics := g.om.GetMetrics()
	err := metrics.TrackAIOperationWithTokens(ctx, g.operation, func(ctx context.Context) *AIOperationResult {
		var genErr error
		text, usage, genErr = g.inner.Generate(ctx, prompt)
		return &AIOperationResult{
			Error:      genErr,
			TokenUsage: convertTokenUsage(usage),
		}
	}, g.om)

	return text, usage, err
}

func (g *InstrumentedGenerator) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return g.inner.GetModelInfo(ctx)
}

func (g *InstrumentedGenerator) Close() error { return g.inner.Close() }

func convertTokenUsage(usage *ai.TokenUsage) *TokenUsage {
	if usage == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
		TotalTokens:  usage.TotalTokens,
	}
}
