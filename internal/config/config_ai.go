package config

// Operation names used to select per-operation AI configuration.
const (
	OperationAnalyze   = "analyze"
	OperationScreen    = "screen"
	OperationInterview = "interview"
	OperationSummary   = "summary"
	OperationQuestions = "questions"
)

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// RequireLive: apply global default only if not explicitly set
	if opCfg.RequireLive == nil {
		opCfg.RequireLive = &c.AI.RequireLive
	}
}

// GetAnalyzeConfig returns the AI configuration for requirement analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze
	c.applyOperationDefaults(&config)
	return config
}

// GetScreenConfig returns the AI configuration for resume screening with fallback to global config
func (c *Config) GetScreenConfig() OperationAIConfig {
	config := c.AI.Screen
	c.applyOperationDefaults(&config)
	return config
}

// GetInterviewConfig returns the AI configuration for interview scoring with fallback to global config
func (c *Config) GetInterviewConfig() OperationAIConfig {
	config := c.AI.Interview
	c.applyOperationDefaults(&config)
	return config
}

// GetSummaryConfig returns the AI configuration for summary generation with fallback to global config
func (c *Config) GetSummaryConfig() OperationAIConfig {
	config := c.AI.Summary
	c.applyOperationDefaults(&config)
	return config
}

// GetQuestionsConfig returns the AI configuration for interview question generation with fallback to global config
func (c *Config) GetQuestionsConfig() OperationAIConfig {
	config := c.AI.Questions
	c.applyOperationDefaults(&config)
	return config
}

// GetOperationConfig returns the AI configuration for the named operation.
// Unknown operation names fall back to the global configuration.
func (c *Config) GetOperationConfig(operationType string) OperationAIConfig {
	switch operationType {
	case OperationAnalyze:
		return c.GetAnalyzeConfig()
	case OperationScreen:
		return c.GetScreenConfig()
	case OperationInterview:
		return c.GetInterviewConfig()
	case OperationSummary:
		return c.GetSummaryConfig()
	case OperationQuestions:
		return c.GetQuestionsConfig()
	default:
		config := OperationAIConfig{}
		c.applyOperationDefaults(&config)
		return config
	}
}
