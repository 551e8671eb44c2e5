package cli

import (
	"fmt"

	"talentnav/internal/ai"
	"talentnav/internal/config"
	"talentnav/internal/errors"
	"talentnav/internal/pipeline"
)

// newPipeline builds an evaluation pipeline with generators for the given
// operations. Operations not listed get no generator and their stages run
// on deterministic fallbacks, which keeps single-stage commands from paying
// for clients they never use.
func newPipeline(cfg *config.Config, logger *errors.Logger, operations ...string) (*pipeline.Pipeline, error) {
	var gens pipeline.Generators

	for _, operation := range operations {
		generator, err := newGenerator(cfg, logger, operation)
		if err != nil {
			return nil, err
		}

		switch operation {
		case config.OperationAnalyze:
			gens.Analyze = generator
		case config.OperationScreen:
			gens.Screen = generator
		case config.OperationInterview:
			gens.Interview = generator
		case config.OperationSummary:
			gens.Summary = generator
		}
	}

	return pipeline.New(cfg, gens, logger, nil), nil
}

// newGenerator creates the text generator for one pipeline operation.
func newGenerator(cfg *config.Config, logger *errors.Logger, operation string) (ai.TextGenerator, error) {
	opConfig := cfg.GetOperationConfig(operation)
	generator, err := ai.NewService(&opConfig, operation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", operation, err)
	}
	return generator, nil
}
