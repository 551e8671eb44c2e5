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

const unableToEvaluateComment = "Unable to evaluate resume."

// ResumeScreener compares the resume against the requirement record and
// produces a skill-match evaluation. When the generation service is
// unavailable or returns garbage it falls back to deterministic keyword
// containment over the required skills.
type ResumeScreener struct {
	generator ai.TextGenerator
	template  string
	logger    *errors.Logger
}

// NewResumeScreener builds the resume screening stage.
func NewResumeScreener(generator ai.TextGenerator, template string, logger *errors.Logger) *ResumeScreener {
	return &ResumeScreener{
		generator: generator,
		template:  template,
		logger:    logger,
	}
}

func (s *ResumeScreener) Name() string { return "resume_screener" }

// Run screens state.ResumeText against state.Requirements into
// state.ResumeEval.
func (s *ResumeScreener) Run(ctx context.Context, state *types.PipelineState) StageOutcome {
	resume := strings.TrimSpace(state.ResumeText)
	requirements := state.Requirements

	// Contract violation guards, not error paths: missing inputs produce
	// the default evaluation with no generation call.
	if resume == "" || requirements == nil || requirements.IsEmpty() {
		if s.logger != nil {
			s.logger.Warn("Resume screener missing input, returning default evaluation",
				"has_resume", resume != "",
				"has_requirements", requirements != nil && !requirements.IsEmpty())
		}
		state.ResumeEval = defaultResumeEvaluation()
		return StageOutcome{}
	}

	if s.generator == nil || !s.generator.Available() {
		state.ResumeEval = s.keywordFallback(requirements, state.ResumeText)
		return StageOutcome{Fallback: true, Err: fmt.Errorf("generation service unavailable")}
	}

	raw, _, err := s.generator.Generate(ctx, s.buildPrompt(requirements, state.ResumeText))
	if err != nil {
		state.ResumeEval = s.keywordFallback(requirements, state.ResumeText)
		return StageOutcome{Fallback: true, Err: err}
	}

	mapping := parse.Extract(raw, s.logger)
	if len(mapping) == 0 {
		state.ResumeEval = s.keywordFallback(requirements, state.ResumeText)
		return StageOutcome{Fallback: true, Err: fmt.Errorf("no structured signal in generation output")}
	}

	state.ResumeEval = normalizeResumeEvaluation(mapping)

	if s.logger != nil {
		s.logger.Info("Resume screening complete",
			"skill_match", state.ResumeEval.SkillMatch,
			"matched", len(state.ResumeEval.MatchedSkills),
			"missing", len(state.ResumeEval.MissingSkills))
	}
	return StageOutcome{}
}

func (s *ResumeScreener) buildPrompt(requirements *types.RequirementRecord, resumeText string) string {
	reqJSON, err := json.MarshalIndent(requirements, "", "  ")
	if err != nil {
		reqJSON = []byte("{}")
	}
	return fmt.Sprintf(s.template, string(reqJSON), resumeText)
}

// normalizeResumeEvaluation maps a parsed response onto the evaluation
// shape: lists deduplicated order-preserving, score clamped into [0,100].
// A non-numeric score is recomputed from the matched/missing counts rather
// than discarded.
func normalizeResumeEvaluation(m parse.Mapping) *types.ResumeEvaluation {
	matched := parse.DedupFold(m.StringList("matched_skills"))
	missing := parse.DedupFold(m.StringList("missing_skills"))

	skillMatch, numeric := m.Int("skill_match")
	if !numeric {
		skillMatch = percentage(len(matched), len(matched)+len(missing))
	}

	comment := m.String("comment")
	if comment == "" {
		comment = "Evaluation completed."
	}

	return &types.ResumeEvaluation{
		SkillMatch:    parse.Clamp(skillMatch),
		MatchedSkills: matched,
		MissingSkills: missing,
		Comment:       comment,
	}
}

// keywordFallback is the deterministic degraded path: a required skill is
// matched iff its lower-cased form appears as a substring of the resume.
func (s *ResumeScreener) keywordFallback(requirements *types.RequirementRecord, resumeText string) *types.ResumeEvaluation {
	required := parse.DedupFold(requirements.RequiredSkills)
	resumeLower := strings.ToLower(resumeText)

	matched := []string{}
	missing := []string{}
	for _, skill := range required {
		if strings.Contains(resumeLower, strings.ToLower(skill)) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	skillMatch := percentage(len(matched), len(required))

	if s.logger != nil {
		s.logger.Info("Resume screening fallback complete",
			"skill_match", skillMatch,
			"matched", len(matched),
			"total", len(required))
	}

	return &types.ResumeEvaluation{
		SkillMatch:    skillMatch,
		MatchedSkills: matched,
		MissingSkills: missing,
		Comment:       fmt.Sprintf("Skill match: %d/%d required skills found (%d%%).", len(matched), len(required), skillMatch),
	}
}

func defaultResumeEvaluation() *types.ResumeEvaluation {
	return &types.ResumeEvaluation{
		SkillMatch:    0,
		MatchedSkills: []string{},
		MissingSkills: []string{},
		Comment:       unableToEvaluateComment,
	}
}

// percentage computes round(100 * count / total) with a division-by-zero
// guard, clamped to [0,100].
func percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return parse.Clamp(int(math.Round(100 * float64(count) / float64(total))))
}
