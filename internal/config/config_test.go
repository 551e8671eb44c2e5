package config

import (
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     60 * time.Second,
			Temperature: 0.7,
		},
		Scoring: ScoringConfig{
			ResumeWeight:    0.4,
			InterviewWeight: 0.6,
			StrongHireMin:   80,
			HireMin:         65,
			MaybeMin:        50,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing API key is allowed",
			mutate:  func(c *Config) { c.AI.APIKey = "" },
			wantErr: false,
		},
		{
			name:    "zero AI timeout",
			mutate:  func(c *Config) { c.AI.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "unsupported default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "yaml" },
			wantErr: true,
		},
		{
			name: "rate limit enabled with zero rate",
			mutate: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerMin = 0
			},
			wantErr: true,
		},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.Scoring.InterviewWeight = 0.5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScoringConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		scoring ScoringConfig
		wantErr bool
	}{
		{
			name:    "default weights and thresholds",
			scoring: ScoringConfig{ResumeWeight: 0.4, InterviewWeight: 0.6, StrongHireMin: 80, HireMin: 65, MaybeMin: 50},
			wantErr: false,
		},
		{
			name:    "even split",
			scoring: ScoringConfig{ResumeWeight: 0.5, InterviewWeight: 0.5, StrongHireMin: 80, HireMin: 65, MaybeMin: 50},
			wantErr: false,
		},
		{
			name:    "negative weight",
			scoring: ScoringConfig{ResumeWeight: -0.4, InterviewWeight: 1.4, StrongHireMin: 80, HireMin: 65, MaybeMin: 50},
			wantErr: true,
		},
		{
			name:    "weights sum below one",
			scoring: ScoringConfig{ResumeWeight: 0.3, InterviewWeight: 0.6, StrongHireMin: 80, HireMin: 65, MaybeMin: 50},
			wantErr: true,
		},
		{
			name:    "thresholds out of order",
			scoring: ScoringConfig{ResumeWeight: 0.4, InterviewWeight: 0.6, StrongHireMin: 60, HireMin: 65, MaybeMin: 50},
			wantErr: true,
		},
		{
			name:    "strong hire above 100",
			scoring: ScoringConfig{ResumeWeight: 0.4, InterviewWeight: 0.6, StrongHireMin: 101, HireMin: 65, MaybeMin: 50},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scoring.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetOperationConfigAppliesGlobalDefaults(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.APIKey = "global-key"
	cfg.AI.Screen.Model = "gemini-2.5-pro"

	screen := cfg.GetScreenConfig()
	if screen.Model != "gemini-2.5-pro" {
		t.Errorf("expected operation-specific model to survive, got %s", screen.Model)
	}
	if screen.APIKey != "global-key" {
		t.Errorf("expected global API key fallback, got %q", screen.APIKey)
	}
	if screen.Timeout == nil || *screen.Timeout != 60*time.Second {
		t.Errorf("expected global timeout fallback, got %v", screen.Timeout)
	}
	if screen.Provider != "gemini" {
		t.Errorf("expected global provider fallback, got %s", screen.Provider)
	}
}

func TestGetOperationConfigDispatch(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.Interview.Model = "interview-model"

	got := cfg.GetOperationConfig(OperationInterview)
	if got.Model != "interview-model" {
		t.Errorf("GetOperationConfig(interview) model = %s, want interview-model", got.Model)
	}

	unknown := cfg.GetOperationConfig("unknown")
	if unknown.Model != cfg.AI.Model {
		t.Errorf("unknown operation should fall back to global model, got %s", unknown.Model)
	}
}

func TestMustBeLive(t *testing.T) {
	cfg := validTestConfig()

	op := cfg.GetAnalyzeConfig()
	if op.MustBeLive() {
		t.Error("expected MustBeLive to default to false")
	}

	cfg.AI.RequireLive = true
	op = cfg.GetAnalyzeConfig()
	if !op.MustBeLive() {
		t.Error("expected global requireLive to propagate to operations")
	}

	disabled := false
	cfg.AI.Analyze.RequireLive = &disabled
	op = cfg.GetAnalyzeConfig()
	if op.MustBeLive() {
		t.Error("expected operation-level requireLive override to win")
	}
}
