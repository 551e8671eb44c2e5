package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineRecorder adapts the observability metrics to the pipeline's
// measurement interface. A nil recorder is safe to pass around; every method
// no-ops when the underlying metrics are not initialized.
type PipelineRecorder struct {
	metrics *Metrics
	om      *ObservabilityManager
}

// NewPipelineRecorder builds the recorder used by the evaluation pipeline.
func NewPipelineRecorder(om *ObservabilityManager) *PipelineRecorder {
	if om == nil {
		return nil
	}
	return &PipelineRecorder{metrics: om.GetMetrics(), om: om}
}

func (r *PipelineRecorder) pipelineConfig() (trackOutcomes, trackFallbacks, trackRecommendation bool) {
	if r.om == nil || r.om.fullConfig == nil {
		return true, true, true
	}
	cfg := r.om.fullConfig.Observability.CustomMetrics.Pipeline
	if !cfg.Enabled {
		return false, false, false
	}
	return cfg.TrackStageOutcomes, cfg.TrackFallbackRates, cfg.TrackRecommendation
}

// RecordStageOutcome counts one stage execution, tagged with whether the
// stage fell back to its deterministic path.
func (r *PipelineRecorder) RecordStageOutcome(ctx context.Context, stage string, fallback bool) {
	if r == nil || r.metrics == nil {
		return
	}
	trackOutcomes, trackFallbacks, _ := r.pipelineConfig()

	attrs := []attribute.KeyValue{
		attribute.String("stage", stage),
		attribute.Bool("fallback", fallback),
	}

	if trackOutcomes && r.metrics.StageRuns != nil {
		r.metrics.StageRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if fallback && trackFallbacks && r.metrics.StageFallbacks != nil {
		r.metrics.StageFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

// RecordRecommendation counts a completed evaluation by recommendation band.
func (r *PipelineRecorder) RecordRecommendation(ctx context.Context, recommendation string) {
	if r == nil || r.metrics == nil {
		return
	}
	_, _, trackRecommendation := r.pipelineConfig()

	r.metrics.RecordEvaluationCompleted(ctx, r.om)

	if trackRecommendation && r.metrics.Recommendations != nil {
		r.metrics.Recommendations.Add(ctx, 1,
			metric.WithAttributes(attribute.String("recommendation", recommendation)))
	}
}
