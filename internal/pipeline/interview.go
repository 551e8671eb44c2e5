package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"talentnav/internal/ai"
	"talentnav/internal/errors"
	"talentnav/internal/parse"
	"talentnav/internal/types"
)

const noInterviewDataConcern = "No interview data provided"

// InterviewEvaluator scores the interview transcript against the
// requirement record. The degraded path scores each answer by length:
// min(100, round(100 * len(answer)/300)).
type InterviewEvaluator struct {
	generator ai.TextGenerator
	template  string
	logger    *errors.Logger
}

// NewInterviewEvaluator builds the interview scoring stage.
func NewInterviewEvaluator(generator ai.TextGenerator, template string, logger *errors.Logger) *InterviewEvaluator {
	return &InterviewEvaluator{
		generator: generator,
		template:  template,
		logger:    logger,
	}
}

func (e *InterviewEvaluator) Name() string { return "interview_evaluator" }

// Run evaluates state.InterviewQA into state.InterviewEval.
func (e *InterviewEvaluator) Run(ctx context.Context, state *types.PipelineState) StageOutcome {
	if len(state.InterviewQA) == 0 {
		if e.logger != nil {
			e.logger.Warn("Interview evaluator has no Q&A pairs, returning default evaluation")
		}
		state.InterviewEval = &types.InterviewEvaluation{
			OverallScore:   0,
			QuestionScores: []types.QuestionScore{},
			Strengths:      []string{},
			Concerns:       []string{noInterviewDataConcern},
		}
		return StageOutcome{}
	}

	if e.generator == nil || !e.generator.Available() {
		state.InterviewEval = e.lengthFallback(state.InterviewQA)
		return StageOutcome{Fallback: true, Err: fmt.Errorf("generation service unavailable")}
	}

	raw, _, err := e.generator.Generate(ctx, e.buildPrompt(state))
	if err != nil {
		state.InterviewEval = e.lengthFallback(state.InterviewQA)
		return StageOutcome{Fallback: true, Err: err}
	}

	mapping := parse.Extract(raw, e.logger)
	if len(mapping) == 0 {
		state.InterviewEval = e.lengthFallback(state.InterviewQA)
		return StageOutcome{Fallback: true, Err: fmt.Errorf("no structured signal in generation output")}
	}

	state.InterviewEval = normalizeInterviewEvaluation(mapping, state.InterviewQA)

	if e.logger != nil {
		e.logger.Info("Interview evaluation complete",
			"overall_score", state.InterviewEval.OverallScore,
			"questions", len(state.InterviewEval.QuestionScores))
	}
	return StageOutcome{}
}

func (e *InterviewEvaluator) buildPrompt(state *types.PipelineState) string {
	reqJSON := []byte("{}")
	if state.Requirements != nil {
		if data, err := json.MarshalIndent(state.Requirements, "", "  "); err == nil {
			reqJSON = data
		}
	}

	var transcript strings.Builder
	for i, qa := range state.InterviewQA {
		if i > 0 {
			transcript.WriteString("\n\n")
		}
		fmt.Fprintf(&transcript, "Q%d: %s\nA%d: %s", i+1, qa.Question, i+1, qa.Answer)
	}

	return fmt.Sprintf(e.template, string(reqJSON), transcript.String())
}

// normalizeInterviewEvaluation aligns the parsed response with the input
// transcript: exactly one question score per input pair, in input order.
// Pairs the service skipped fall back to the length heuristic, and a
// non-numeric overall score is recomputed as the floor average of the
// per-question scores.
func normalizeInterviewEvaluation(m parse.Mapping, interviewQA []types.QA) *types.InterviewEvaluation {
	parsed := m.MappingList("question_scores")

	questionScores := make([]types.QuestionScore, len(interviewQA))
	for i, qa := range interviewQA {
		if i < len(parsed) {
			score, numeric := parsed[i].Int("score")
			if !numeric {
				score = lengthScore(qa.Answer)
			}
			questionScores[i] = types.QuestionScore{
				Question: qa.Question,
				Score:    parse.Clamp(score),
				Feedback: parsed[i].String("feedback"),
			}
			continue
		}
		questionScores[i] = types.QuestionScore{
			Question: qa.Question,
			Score:    lengthScore(qa.Answer),
			Feedback: "Basic evaluation based on answer length.",
		}
	}

	overall, numeric := m.Int("overall_score")
	if !numeric {
		total := 0
		for _, qs := range questionScores {
			total += qs.Score
		}
		overall = total / len(questionScores)
	}

	return &types.InterviewEvaluation{
		OverallScore:   parse.Clamp(overall),
		QuestionScores: questionScores,
		Strengths:      parse.DedupFold(m.StringList("strengths")),
		Concerns:       parse.DedupFold(m.StringList("concerns")),
	}
}

// lengthFallback scores every answer by length and averages with integer
// floor division.
func (e *InterviewEvaluator) lengthFallback(interviewQA []types.QA) *types.InterviewEvaluation {
	questionScores := make([]types.QuestionScore, len(interviewQA))
	total := 0
	for i, qa := range interviewQA {
		score := lengthScore(qa.Answer)
		total += score
		questionScores[i] = types.QuestionScore{
			Question: qa.Question,
			Score:    score,
			Feedback: "Basic evaluation based on answer length.",
		}
	}

	overall := total / len(interviewQA)

	if e.logger != nil {
		e.logger.Info("Interview evaluation fallback complete",
			"overall_score", overall,
			"questions", len(interviewQA))
	}

	return &types.InterviewEvaluation{
		OverallScore:   overall,
		QuestionScores: questionScores,
		Strengths:      []string{"Provided answers to questions"},
		Concerns:       []string{"Unable to perform detailed AI evaluation"},
	}
}

// lengthScore is the deterministic per-answer heuristic:
// min(100, round(100 * len(answer)/300)).
func lengthScore(answer string) int {
	length := len(strings.TrimSpace(answer))
	return parse.Clamp(int(math.Round(100 * float64(length) / 300)))
}
