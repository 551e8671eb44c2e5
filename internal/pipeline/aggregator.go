package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"talentnav/internal/ai"
	"talentnav/internal/config"
	"talentnav/internal/errors"
	"talentnav/internal/parse"
	"talentnav/internal/types"
)

// ScoreAggregator combines the resume and interview scores into the final
// recommendation. The numeric result is fully deterministic; only the
// narrative summary may come from the generation service, with a templated
// sentence as fallback.
type ScoreAggregator struct {
	generator ai.TextGenerator
	template  string
	scoring   config.ScoringConfig
	logger    *errors.Logger
}

// NewScoreAggregator builds the aggregation stage.
func NewScoreAggregator(generator ai.TextGenerator, template string, scoring config.ScoringConfig, logger *errors.Logger) *ScoreAggregator {
	return &ScoreAggregator{
		generator: generator,
		template:  template,
		scoring:   scoring,
		logger:    logger,
	}
}

func (a *ScoreAggregator) Name() string { return "score_aggregator" }

// Run aggregates the stage scores into state.Final.
func (a *ScoreAggregator) Run(ctx context.Context, state *types.PipelineState) StageOutcome {
	resumeScore := 0
	matched := []string{}
	missing := []string{}
	if state.ResumeEval != nil {
		resumeScore = parse.Clamp(state.ResumeEval.SkillMatch)
		matched = state.ResumeEval.MatchedSkills
		missing = state.ResumeEval.MissingSkills
	}

	interviewScore := 0
	interviewStrengths := []string{}
	interviewConcerns := []string{}
	if state.InterviewEval != nil {
		interviewScore = parse.Clamp(state.InterviewEval.OverallScore)
		interviewStrengths = state.InterviewEval.Strengths
		interviewConcerns = state.InterviewEval.Concerns
	}

	overall := int(math.Round(float64(resumeScore)*a.scoring.ResumeWeight + float64(interviewScore)*a.scoring.InterviewWeight))
	recommendation := a.recommend(overall)

	keyStrengths := []string{}
	if len(matched) > 0 {
		keyStrengths = append(keyStrengths, "Strong skill match: "+strings.Join(topN(matched, 3), ", "))
	}
	keyStrengths = append(keyStrengths, topN(interviewStrengths, 2)...)

	keyConcerns := []string{}
	if len(missing) > 0 {
		keyConcerns = append(keyConcerns, "Missing skills: "+strings.Join(topN(missing, 3), ", "))
	}
	keyConcerns = append(keyConcerns, topN(interviewConcerns, 2)...)

	final := &types.FinalEvaluation{
		OverallScore:   overall,
		ResumeScore:    resumeScore,
		InterviewScore: interviewScore,
		Recommendation: recommendation,
		KeyStrengths:   topN(keyStrengths, 5),
		KeyConcerns:    topN(keyConcerns, 3),
	}

	summary, outcome := a.summarize(ctx, state, final, matched, missing)
	final.Summary = summary
	state.Final = final

	if a.logger != nil {
		a.logger.Info("Final evaluation complete",
			"overall_score", overall,
			"resume_score", resumeScore,
			"interview_score", interviewScore,
			"recommendation", recommendation)
	}
	return outcome
}

// recommend maps an overall score onto the recommendation bands,
// evaluated high to low.
func (a *ScoreAggregator) recommend(overall int) string {
	switch {
	case overall >= a.scoring.StrongHireMin:
		return types.RecommendationStrongHire
	case overall >= a.scoring.HireMin:
		return types.RecommendationHire
	case overall >= a.scoring.MaybeMin:
		return types.RecommendationMaybe
	default:
		return types.RecommendationNoHire
	}
}

// summarize produces the narrative summary. The aggregator never fails
// because of the narrative: any generation problem yields the templated
// sentence built from the already-computed facts.
func (a *ScoreAggregator) summarize(ctx context.Context, state *types.PipelineState, final *types.FinalEvaluation, matched, missing []string) (string, StageOutcome) {
	fallback := a.templatedSummary(state, final, matched)

	if a.generator == nil || !a.generator.Available() {
		return fallback, StageOutcome{Fallback: true, Err: fmt.Errorf("generation service unavailable")}
	}

	prompt := fmt.Sprintf(a.template,
		roleOrDefault(state),
		final.ResumeScore,
		final.InterviewScore,
		final.OverallScore,
		final.Recommendation,
		joinOrNone(matched),
		joinOrNone(missing),
	)

	raw, _, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return fallback, StageOutcome{Fallback: true, Err: err}
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return fallback, StageOutcome{Fallback: true, Err: fmt.Errorf("empty summary from generation service")}
	}
	return summary, StageOutcome{}
}

// templatedSummary is the deterministic narrative built from the computed
// fields.
func (a *ScoreAggregator) templatedSummary(state *types.PipelineState, final *types.FinalEvaluation, matched []string) string {
	return fmt.Sprintf(
		"Candidate evaluated for %s.\nResume shows %d%% skill match with %d key skills.\nInterview performance scored %d%%.\nOverall assessment: %d%% - %s.",
		roleOrDefault(state),
		final.ResumeScore,
		len(matched),
		final.InterviewScore,
		final.OverallScore,
		final.Recommendation,
	)
}

func roleOrDefault(state *types.PipelineState) string {
	if state.Requirements != nil && state.Requirements.Role != "" {
		return state.Requirements.Role
	}
	return "the position"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// topN returns at most n leading items without mutating the input.
func topN(items []string, n int) []string {
	if len(items) <= n {
		return append([]string{}, items...)
	}
	return append([]string{}, items[:n]...)
}
