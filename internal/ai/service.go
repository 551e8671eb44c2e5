package ai

import (
	"fmt"

	"talentnav/internal/config"
	"talentnav/internal/errors"
)

// NewService builds the text generator for one pipeline operation. A missing
// API key is not an error: the pipeline is designed to complete on its
// deterministic fallbacks, so the unconfigured generator is returned and the
// degraded mode is logged. The only hard failure is an explicit requireLive
// configuration with no credentials, which is a startup precondition rather
// than a runtime condition.
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (TextGenerator, error) {
	if cfg.APIKey == "" {
		if cfg.MustBeLive() {
			return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				fmt.Sprintf("Live generation required for %s operation but no API key configured", operationType), nil)
		}
		if logger != nil {
			logger.Warn("Generation service unconfigured, pipeline will run in degraded mode",
				"operation_type", operationType)
		}
		return UnconfiguredGenerator{}, nil
	}

	switch cfg.Provider {
	case "gemini":
		generator, err := NewGeminiGenerator(cfg, operationType, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create generation provider", err)
		}
		if logger != nil {
			logger.Debug("Initialized generation service",
				"provider", cfg.Provider,
				"operation_type", operationType,
				"model", cfg.Model)
		}
		return generator, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}
