package observability

import (
	"context"
	"fmt"
	"testing"

	"talentnav/internal/ai"
)

type stubGenerator struct {
	text  string
	usage *ai.TokenUsage
	err   error
	calls int
}

func (s *stubGenerator) Available() bool { return true }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, *ai.TokenUsage, error) {
	s.calls++
	return s.text, s.usage, s.err
}

func (s *stubGenerator) GetModelInfo(ctx context.Context) *ai.ModelInfo { return nil }

func (s *stubGenerator) Close() error { return nil }

func TestNewInstrumentedGeneratorNilManager(t *testing.T) {
	inner := &stubGenerator{}
	if got := NewInstrumentedGenerator(inner, "analyze", nil); got != ai.TextGenerator(inner) {
		t.Error("nil manager should return the inner generator unwrapped")
	}
}

func TestInstrumentedGeneratorPassThrough(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	inner := &stubGenerator{
		text:  "generated output",
		usage: &ai.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
	}
	gen := NewInstrumentedGenerator(inner, "screen", om)

	text, usage, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "generated output" {
		t.Errorf("text = %q, want %q", text, "generated output")
	}
	if usage == nil || usage.TotalTokens != 30 {
		t.Errorf("usage = %+v, want total 30", usage)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestInstrumentedGeneratorPropagatesError(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	genErr := fmt.Errorf("transport down")
	gen := NewInstrumentedGenerator(&stubGenerator{err: genErr}, "summary", om)

	_, _, err = gen.Generate(context.Background(), "prompt")
	if err == nil || err.Error() != "transport down" {
		t.Errorf("err = %v, want transport down", err)
	}
}

func TestConvertTokenUsage(t *testing.T) {
	if convertTokenUsage(nil) != nil {
		t.Error("nil usage should convert to nil")
	}
	got := convertTokenUsage(&ai.TokenUsage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3})
	if got.InputTokens != 1 || got.OutputTokens != 2 || got.TotalTokens != 3 {
		t.Errorf("converted usage = %+v", got)
	}
}
