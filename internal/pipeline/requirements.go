package pipeline

import (
	"context"
	"fmt"
	"strings"

	"talentnav/internal/ai"
	"talentnav/internal/errors"
	"talentnav/internal/parse"
	"talentnav/internal/types"
)

// RequirementAnalyzer extracts a normalized RequirementRecord from the raw
// job description. This is the only stage without a keyword-based fallback:
// there is no reliable non-generative way to structure free text, so on any
// failure it produces an all-defaults record as an explicit degraded mode.
type RequirementAnalyzer struct {
	generator ai.TextGenerator
	template  string
	logger    *errors.Logger
}

// NewRequirementAnalyzer builds the requirement analysis stage.
func NewRequirementAnalyzer(generator ai.TextGenerator, template string, logger *errors.Logger) *RequirementAnalyzer {
	return &RequirementAnalyzer{
		generator: generator,
		template:  template,
		logger:    logger,
	}
}

func (a *RequirementAnalyzer) Name() string { return "requirement_analyzer" }

// Run analyzes state.JobDescription into state.Requirements.
func (a *RequirementAnalyzer) Run(ctx context.Context, state *types.PipelineState) StageOutcome {
	record := types.NewRequirementRecord()
	state.Requirements = &record

	jd := collapseWhitespace(state.JobDescription)
	if jd == "" {
		if a.logger != nil {
			a.logger.Warn("No job description provided to requirement analyzer")
		}
		return StageOutcome{}
	}

	if a.generator == nil || !a.generator.Available() {
		return StageOutcome{Fallback: true, Err: fmt.Errorf("generation service unavailable")}
	}

	raw, _, err := a.generator.Generate(ctx, fmt.Sprintf(a.template, jd))
	if err != nil {
		return StageOutcome{Fallback: true, Err: err}
	}

	mapping := parse.Extract(raw, a.logger)
	if len(mapping) == 0 {
		return StageOutcome{Fallback: true, Err: fmt.Errorf("no structured signal in generation output")}
	}

	record = normalizeRequirements(mapping)
	state.Requirements = &record

	if a.logger != nil {
		a.logger.Info("Requirement analysis complete",
			"role", record.Role,
			"required_skills", len(record.RequiredSkills))
	}
	return StageOutcome{}
}

// requirementAliases maps each canonical field to the upstream key spellings
// accepted for it, in preference order.
var requirementAliases = struct {
	role, requiredSkills, tools, minimumExperience, responsibilities, education, employmentType []string
}{
	role:              []string{"role", "position"},
	requiredSkills:    []string{"required_skills", "skills"},
	tools:             []string{"tools", "technologies"},
	minimumExperience: []string{"minimum_experience", "experience"},
	responsibilities:  []string{"responsibilities", "responsibilities_list"},
	education:         []string{"education"},
	employmentType:    []string{"employment_type", "employment"},
}

// normalizeRequirements maps a parsed response onto the canonical record
// shape, resolving field-name aliases and defaulting to empty values.
func normalizeRequirements(m parse.Mapping) types.RequirementRecord {
	record := types.NewRequirementRecord()
	record.Role = m.String(requirementAliases.role...)
	record.RequiredSkills = m.StringList(requirementAliases.requiredSkills...)
	record.Tools = m.StringList(requirementAliases.tools...)
	record.MinimumExperience = m.String(requirementAliases.minimumExperience...)
	record.Responsibilities = m.StringList(requirementAliases.responsibilities...)
	record.Education = m.String(requirementAliases.education...)
	record.EmploymentType = m.String(requirementAliases.employmentType...)
	return record
}

// collapseWhitespace normalizes all whitespace runs, including newlines, to
// single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
