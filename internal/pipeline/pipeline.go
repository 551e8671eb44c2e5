package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"talentnav/internal/ai"
	"talentnav/internal/config"
	"talentnav/internal/errors"
	"talentnav/internal/types"
)

// Stage is one step of the evaluation pipeline. A stage never fails: it
// absorbs generation and parse failures into a deterministic fallback and
// reports what happened through the returned outcome.
type Stage interface {
	Name() string
	Run(ctx context.Context, state *types.PipelineState) StageOutcome
}

// StageOutcome describes how a stage produced its output. Err carries the
// absorbed failure for diagnostics only; it never aborts the run.
type StageOutcome struct {
	Fallback bool
	Err      error
}

// Metrics receives pipeline-level measurements. Implementations must be
// safe for concurrent use; a nil Metrics disables recording.
type Metrics interface {
	RecordStageOutcome(ctx context.Context, stage string, fallback bool)
	RecordRecommendation(ctx context.Context, recommendation string)
}

// Generators bundles the per-operation text generators injected into the
// pipeline. Any of them may be an unconfigured generator; the owning stage
// then runs its deterministic fallback.
type Generators struct {
	Analyze   ai.TextGenerator
	Screen    ai.TextGenerator
	Interview ai.TextGenerator
	Summary   ai.TextGenerator
}

// Pipeline runs the four evaluation stages strictly in order over one
// PipelineState. Each run owns its state exclusively, so independent runs
// may execute in parallel.
type Pipeline struct {
	analyzer   *RequirementAnalyzer
	screener   *ResumeScreener
	evaluator  *InterviewEvaluator
	aggregator *ScoreAggregator

	stages  []Stage
	logger  *errors.Logger
	metrics Metrics
}

// New builds the pipeline from configuration and injected generators.
func New(cfg *config.Config, gens Generators, logger *errors.Logger, metrics Metrics) *Pipeline {
	analyzeTemplate := resolveTemplate(cfg, config.OperationAnalyze, defaultAnalyzeTemplate)
	screenTemplate := resolveTemplate(cfg, config.OperationScreen, defaultScreenTemplate)
	interviewTemplate := resolveTemplate(cfg, config.OperationInterview, defaultInterviewTemplate)
	summaryTemplate := resolveTemplate(cfg, config.OperationSummary, defaultSummaryTemplate)

	p := &Pipeline{
		analyzer:   NewRequirementAnalyzer(gens.Analyze, analyzeTemplate, logger),
		screener:   NewResumeScreener(gens.Screen, screenTemplate, logger),
		evaluator:  NewInterviewEvaluator(gens.Interview, interviewTemplate, logger),
		aggregator: NewScoreAggregator(gens.Summary, summaryTemplate, cfg.Scoring, logger),
		logger:     logger,
		metrics:    metrics,
	}
	p.stages = []Stage{p.analyzer, p.screener, p.evaluator, p.aggregator}
	return p
}

// resolveTemplate picks the configured prompt override for an operation,
// falling back to the built-in template.
func resolveTemplate(cfg *config.Config, operation, fallback string) string {
	if cfg != nil {
		if override, ok := cfg.PromptOverride(operation); ok {
			return override
		}
	}
	return fallback
}

// Run executes all stages in order and returns the fully populated state.
// The only error it can return is an invalid call shape (nil state); stage
// failures are absorbed into fallbacks and surface only in logs and metrics.
func (p *Pipeline) Run(ctx context.Context, state *types.PipelineState) (*types.PipelineState, error) {
	if state == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput, "pipeline state must not be nil", nil)
	}
	if state.InterviewQA == nil {
		state.InterviewQA = []types.QA{}
	}

	tracer := otel.Tracer("talentnav/pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.run")
	defer span.End()

	for _, stage := range p.stages {
		p.runStage(ctx, tracer, stage, state)
	}

	if state.Final != nil {
		span.SetAttributes(
			attribute.Int("pipeline.overall_score", state.Final.OverallScore),
			attribute.String("pipeline.recommendation", state.Final.Recommendation),
		)
		if p.metrics != nil {
			p.metrics.RecordRecommendation(ctx, state.Final.Recommendation)
		}
	}

	return state, nil
}

// runStage executes one stage with its span, degradation log, and metrics.
func (p *Pipeline) runStage(ctx context.Context, tracer trace.Tracer, stage Stage, state *types.PipelineState) StageOutcome {
	stageCtx, stageSpan := tracer.Start(ctx, "pipeline.stage."+stage.Name(),
		trace.WithAttributes(attribute.String("pipeline.stage", stage.Name())))

	outcome := stage.Run(stageCtx, state)

	stageSpan.SetAttributes(attribute.Bool("pipeline.stage.fallback", outcome.Fallback))
	stageSpan.End()

	if outcome.Err != nil && p.logger != nil {
		p.logger.Warn("Pipeline stage degraded to fallback",
			"stage", stage.Name(),
			"error", outcome.Err.Error())
	}
	if p.metrics != nil {
		p.metrics.RecordStageOutcome(ctx, stage.Name(), outcome.Fallback)
	}
	return outcome
}

// Evaluate is a convenience wrapper that builds the initial state from the
// three raw inputs and runs the full pipeline.
func (p *Pipeline) Evaluate(ctx context.Context, jobDescription, resumeText string, interviewQA []types.QA) (*types.PipelineState, error) {
	return p.Run(ctx, types.NewPipelineState(jobDescription, resumeText, interviewQA))
}

// AnalyzeJD runs only the requirement analysis stage and returns the
// normalized record.
func (p *Pipeline) AnalyzeJD(ctx context.Context, jobDescription string) *types.RequirementRecord {
	tracer := otel.Tracer("talentnav/pipeline")
	state := types.NewPipelineState(jobDescription, "", nil)
	p.runStage(ctx, tracer, p.analyzer, state)
	return state.Requirements
}

// ScreenResume runs requirement analysis followed by resume screening.
func (p *Pipeline) ScreenResume(ctx context.Context, jobDescription, resumeText string) *types.ResumeEvaluation {
	tracer := otel.Tracer("talentnav/pipeline")
	state := types.NewPipelineState(jobDescription, resumeText, nil)
	p.runStage(ctx, tracer, p.analyzer, state)
	p.runStage(ctx, tracer, p.screener, state)
	return state.ResumeEval
}

// ScoreInterview runs requirement analysis followed by interview evaluation.
func (p *Pipeline) ScoreInterview(ctx context.Context, jobDescription string, interviewQA []types.QA) *types.InterviewEvaluation {
	tracer := otel.Tracer("talentnav/pipeline")
	state := types.NewPipelineState(jobDescription, "", interviewQA)
	p.runStage(ctx, tracer, p.analyzer, state)
	p.runStage(ctx, tracer, p.evaluator, state)
	return state.InterviewEval
}
