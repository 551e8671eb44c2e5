package observability

import (
	"context"
	"testing"

	"talentnav/internal/config"
)

func TestGetObservabilityConfigFallback(t *testing.T) {
	obsConfig := GetObservabilityConfig(nil, "1.2.3")

	if obsConfig.ServiceName != "talentnav" {
		t.Errorf("ServiceName = %q, want talentnav", obsConfig.ServiceName)
	}
	if obsConfig.ServiceVersion != "1.2.3" {
		t.Errorf("ServiceVersion = %q, want 1.2.3", obsConfig.ServiceVersion)
	}
	if !obsConfig.Enabled {
		t.Error("fallback config should be enabled")
	}
}

func TestGetObservabilityConfigVersionFallthrough(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "talentnav-test"
	cfg.Observability.ServiceVersion = ""

	obsConfig := GetObservabilityConfig(cfg, "dev")
	if obsConfig.ServiceVersion != "dev" {
		t.Errorf("ServiceVersion = %q, want app version when unset", obsConfig.ServiceVersion)
	}
	if obsConfig.ServiceName != "talentnav-test" {
		t.Errorf("ServiceName = %q", obsConfig.ServiceName)
	}
}

func TestDisabledManagerIsInert(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("NewObservabilityManager failed: %v", err)
	}

	// Middleware must be a passthrough and the tracer a no-op.
	if om.HTTPMiddleware() == nil {
		t.Error("middleware should never be nil")
	}
	if om.Tracer("test") == nil {
		t.Error("tracer should never be nil")
	}
	if om.GetMetrics() == nil {
		t.Error("metrics should never be nil")
	}
	if err := om.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of disabled manager failed: %v", err)
	}
}

func TestPipelineRecorderNilSafety(t *testing.T) {
	var recorder *PipelineRecorder

	// Must not panic.
	recorder.RecordStageOutcome(context.Background(), "resume_screener", true)
	recorder.RecordRecommendation(context.Background(), "Hire")

	if NewPipelineRecorder(nil) != nil {
		t.Error("recorder over a nil manager should be nil")
	}
}

func TestPipelineRecorderUninitializedMetrics(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("NewObservabilityManager failed: %v", err)
	}

	recorder := NewPipelineRecorder(om)
	if recorder == nil {
		t.Fatal("expected a recorder")
	}

	// Metrics instruments are nil when the manager is disabled; recording
	// must still be safe.
	recorder.RecordStageOutcome(context.Background(), "score_aggregator", false)
	recorder.RecordRecommendation(context.Background(), "Strong Hire")
}
