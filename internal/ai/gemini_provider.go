package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talentnav/internal/config"
	talentnavErrors "talentnav/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiGenerator implements TextGenerator for Google Gemini
type GeminiGenerator struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	operationType  string
	circuitBreaker *GenerationCircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *talentnavErrors.Logger
}

// Ensure GeminiGenerator implements TextGenerator
var _ TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new Gemini generator instance for a specific
// pipeline operation
func NewGeminiGenerator(cfg *config.OperationAIConfig, operationType string, logger *talentnavErrors.Logger) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, talentnavErrors.NewAIError(talentnavErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiGenerator{
		client:         client,
		config:         cfg,
		operationType:  operationType,
		circuitBreaker: NewGenerationCircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// Available reports whether a generation attempt is currently worth making.
// It turns false while the circuit breaker is open so stages skip prompt
// building and run their fallbacks directly.
func (g *GeminiGenerator) Available() bool {
	return g.circuitBreaker.AllowsRequests()
}

// Generate performs exactly one generation request. There is no internal
// retry: every stage has a deterministic fallback that is strictly cheaper
// than a blind second attempt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, *TokenUsage, error) {
	tracer := otel.Tracer("talentnav.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate."+g.operationType)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.String("ai.operation", g.operationType),
		attribute.Int("ai.prompt_length", len(prompt)),
	)

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	genaiConfig := &genai.GenerateContentConfig{}
	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
		span.SetAttributes(attribute.Float64("ai.temperature", float64(*g.config.Temperature)))
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		g.logTransportFailure(err)
		return "", nil, &GenerationError{Kind: FailureTransport, Err: err}
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		span.SetAttributes(attribute.Bool("success", false))
		if g.logger != nil {
			g.logger.Warn("Generation returned empty response",
				"operation", g.operationType,
				"model", g.config.Model)
		}
		return "", usage, &GenerationError{
			Kind: FailureMalformed,
			Err:  fmt.Errorf("model %s returned no text", g.config.Model),
		}
	}

	span.SetAttributes(attribute.Bool("success", true))
	return text, usage, nil
}

// logTransportFailure logs a failed call, surfacing the HTTP status when the
// underlying error is a Google API error.
func (g *GeminiGenerator) logTransportFailure(err error) {
	if g.logger == nil {
		return
	}

	args := []any{
		"operation", g.operationType,
		"model", g.config.Model,
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		args = append(args, "http_status", apiErr.Code)
	}
	g.logger.LogError(err, "Generation request failed", args...)
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiGenerator) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout(g.config))
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.config.Model,
				"operation", g.operationType,
				"error", err.Error())
		}
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiGenerator) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"generation_operations": g.circuitBreaker.GetStats(),
		"model_operations":      g.modelBreaker.GetModelStats(),
	}

	stats["overall_healthy"] = g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy()
	return stats
}

// Close implements TextGenerator interface
func (g *GeminiGenerator) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

func modelCheckTimeout(cfg *config.OperationAIConfig) time.Duration {
	if cfg.Timeout != nil && *cfg.Timeout > 0 && *cfg.Timeout < 10*time.Second {
		return *cfg.Timeout
	}
	return 10 * time.Second
}
