package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentnav/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "PipelineState", &EvaluationTextFormatter{})
	registry.RegisterFormatter("markdown", "PipelineState", &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter("text", "RequirementRecord", &RequirementsTextFormatter{})
	registry.RegisterFormatter("markdown", "RequirementRecord", &RequirementsMarkdownFormatter{})
	registry.RegisterFormatter("text", "ResumeEvaluation", &ScreeningTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeEvaluation", &ScreeningMarkdownFormatter{})
	registry.RegisterFormatter("text", "GeneratedQuestions", &QuestionsTextFormatter{})
	registry.RegisterFormatter("markdown", "GeneratedQuestions", &QuestionsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.PipelineState, *types.PipelineState:
		return "PipelineState"
	case types.RequirementRecord:
		return "RequirementRecord"
	case types.ResumeEvaluation:
		return "ResumeEvaluation"
	case types.GeneratedQuestions:
		return "GeneratedQuestions"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asPipelineState(data any) (*types.PipelineState, error) {
	switch state := data.(type) {
	case *types.PipelineState:
		return state, nil
	case types.PipelineState:
		return &state, nil
	default:
		return nil, fmt.Errorf("expected PipelineState, got %T", data)
	}
}

func writeList(output *strings.Builder, items []string) {
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

// EvaluationTextFormatter handles text formatting for completed pipeline runs
type EvaluationTextFormatter struct{}

func (etf *EvaluationTextFormatter) Format(data any) (string, error) {
	state, err := asPipelineState(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	if final := state.Final; final != nil {
		output.WriteString("=== CANDIDATE EVALUATION ===\n\n")
		output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", final.OverallScore))
		output.WriteString(fmt.Sprintf("Resume Score: %d/100\n", final.ResumeScore))
		output.WriteString(fmt.Sprintf("Interview Score: %d/100\n", final.InterviewScore))
		output.WriteString(fmt.Sprintf("Recommendation: %s\n\n", final.Recommendation))

		output.WriteString("Summary:\n")
		output.WriteString(final.Summary)
		output.WriteString("\n\n")

		if len(final.KeyStrengths) > 0 {
			output.WriteString("Key Strengths:\n")
			writeList(&output, final.KeyStrengths)
		}
		if len(final.KeyConcerns) > 0 {
			output.WriteString("Key Concerns:\n")
			writeList(&output, final.KeyConcerns)
		}
	}

	if eval := state.ResumeEval; eval != nil {
		output.WriteString("=== RESUME SCREENING ===\n")
		output.WriteString(fmt.Sprintf("Skill Match: %d%%\n", eval.SkillMatch))
		if len(eval.MatchedSkills) > 0 {
			output.WriteString(fmt.Sprintf("Matched Skills: %s\n", strings.Join(eval.MatchedSkills, ", ")))
		}
		if len(eval.MissingSkills) > 0 {
			output.WriteString(fmt.Sprintf("Missing Skills: %s\n", strings.Join(eval.MissingSkills, ", ")))
		}
		output.WriteString(fmt.Sprintf("Comment: %s\n\n", eval.Comment))
	}

	if eval := state.InterviewEval; eval != nil {
		output.WriteString("=== INTERVIEW EVALUATION ===\n")
		output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", eval.OverallScore))
		for i, qs := range eval.QuestionScores {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, qs.Question))
			output.WriteString(fmt.Sprintf("   Score: %d/100\n", qs.Score))
			if qs.Feedback != "" {
				output.WriteString(fmt.Sprintf("   Feedback: %s\n", qs.Feedback))
			}
			output.WriteString("\n")
		}
		if len(eval.Strengths) > 0 {
			output.WriteString("Strengths:\n")
			writeList(&output, eval.Strengths)
		}
		if len(eval.Concerns) > 0 {
			output.WriteString("Concerns:\n")
			writeList(&output, eval.Concerns)
		}
	}

	if output.Len() == 0 {
		output.WriteString("No evaluation results available.\n")
	}

	return output.String(), nil
}

func (etf *EvaluationTextFormatter) SupportedType() string {
	return "PipelineState"
}

// EvaluationMarkdownFormatter handles markdown formatting for completed pipeline runs
type EvaluationMarkdownFormatter struct{}

func (emf *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	state, err := asPipelineState(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	if final := state.Final; final != nil {
		output.WriteString("# Candidate Evaluation\n\n")
		output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", final.OverallScore))
		output.WriteString(fmt.Sprintf("**Resume Score:** %d/100\n\n", final.ResumeScore))
		output.WriteString(fmt.Sprintf("**Interview Score:** %d/100\n\n", final.InterviewScore))
		output.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", final.Recommendation))

		output.WriteString("## Summary\n\n")
		output.WriteString(final.Summary)
		output.WriteString("\n\n")

		if len(final.KeyStrengths) > 0 {
			output.WriteString("## Key Strengths\n\n")
			writeList(&output, final.KeyStrengths)
		}
		if len(final.KeyConcerns) > 0 {
			output.WriteString("## Key Concerns\n\n")
			writeList(&output, final.KeyConcerns)
		}
	}

	if eval := state.ResumeEval; eval != nil {
		output.WriteString("## Resume Screening\n\n")
		output.WriteString(fmt.Sprintf("**Skill Match:** %d%%\n\n", eval.SkillMatch))
		if len(eval.MatchedSkills) > 0 {
			output.WriteString(fmt.Sprintf("**Matched Skills:** %s\n\n", strings.Join(eval.MatchedSkills, ", ")))
		}
		if len(eval.MissingSkills) > 0 {
			output.WriteString(fmt.Sprintf("**Missing Skills:** %s\n\n", strings.Join(eval.MissingSkills, ", ")))
		}
		output.WriteString(eval.Comment)
		output.WriteString("\n\n")
	}

	if eval := state.InterviewEval; eval != nil {
		output.WriteString("## Interview Evaluation\n\n")
		output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", eval.OverallScore))
		for i, qs := range eval.QuestionScores {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, qs.Question))
			output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", qs.Score))
			if qs.Feedback != "" {
				output.WriteString(qs.Feedback)
				output.WriteString("\n\n")
			}
		}
		if len(eval.Strengths) > 0 {
			output.WriteString("### Strengths\n\n")
			writeList(&output, eval.Strengths)
		}
		if len(eval.Concerns) > 0 {
			output.WriteString("### Concerns\n\n")
			writeList(&output, eval.Concerns)
		}
	}

	if output.Len() == 0 {
		output.WriteString("No evaluation results available.\n")
	}

	return output.String(), nil
}

func (emf *EvaluationMarkdownFormatter) SupportedType() string {
	return "PipelineState"
}

// RequirementsTextFormatter handles text formatting for job requirement analysis
type RequirementsTextFormatter struct{}

func (rtf *RequirementsTextFormatter) Format(data any) (string, error) {
	record, ok := data.(types.RequirementRecord)
	if !ok {
		return "", fmt.Errorf("expected RequirementRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB REQUIREMENTS ===\n\n")
	output.WriteString(fmt.Sprintf("Role: %s\n", record.Role))
	output.WriteString(fmt.Sprintf("Minimum Experience: %s\n", record.MinimumExperience))
	output.WriteString(fmt.Sprintf("Education: %s\n", record.Education))
	output.WriteString(fmt.Sprintf("Employment Type: %s\n\n", record.EmploymentType))

	if len(record.RequiredSkills) > 0 {
		output.WriteString("Required Skills:\n")
		writeList(&output, record.RequiredSkills)
	}
	if len(record.Tools) > 0 {
		output.WriteString("Tools:\n")
		writeList(&output, record.Tools)
	}
	if len(record.Responsibilities) > 0 {
		output.WriteString("Responsibilities:\n")
		writeList(&output, record.Responsibilities)
	}

	return output.String(), nil
}

func (rtf *RequirementsTextFormatter) SupportedType() string {
	return "RequirementRecord"
}

// RequirementsMarkdownFormatter handles markdown formatting for job requirement analysis
type RequirementsMarkdownFormatter struct{}

func (rmf *RequirementsMarkdownFormatter) Format(data any) (string, error) {
	record, ok := data.(types.RequirementRecord)
	if !ok {
		return "", fmt.Errorf("expected RequirementRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Requirements\n\n")
	output.WriteString(fmt.Sprintf("**Role:** %s\n\n", record.Role))
	output.WriteString(fmt.Sprintf("**Minimum Experience:** %s\n\n", record.MinimumExperience))
	output.WriteString(fmt.Sprintf("**Education:** %s\n\n", record.Education))
	output.WriteString(fmt.Sprintf("**Employment Type:** %s\n\n", record.EmploymentType))

	if len(record.RequiredSkills) > 0 {
		output.WriteString("## Required Skills\n\n")
		writeList(&output, record.RequiredSkills)
	}
	if len(record.Tools) > 0 {
		output.WriteString("## Tools\n\n")
		writeList(&output, record.Tools)
	}
	if len(record.Responsibilities) > 0 {
		output.WriteString("## Responsibilities\n\n")
		writeList(&output, record.Responsibilities)
	}

	return output.String(), nil
}

func (rmf *RequirementsMarkdownFormatter) SupportedType() string {
	return "RequirementRecord"
}

// ScreeningTextFormatter handles text formatting for standalone resume screening
type ScreeningTextFormatter struct{}

func (stf *ScreeningTextFormatter) Format(data any) (string, error) {
	eval, ok := data.(types.ResumeEvaluation)
	if !ok {
		return "", fmt.Errorf("expected ResumeEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SCREENING ===\n\n")
	output.WriteString(fmt.Sprintf("Skill Match: %d%%\n\n", eval.SkillMatch))

	if len(eval.MatchedSkills) > 0 {
		output.WriteString("Matched Skills:\n")
		writeList(&output, eval.MatchedSkills)
	}
	if len(eval.MissingSkills) > 0 {
		output.WriteString("Missing Skills:\n")
		writeList(&output, eval.MissingSkills)
	}

	output.WriteString("Comment:\n")
	output.WriteString(eval.Comment)
	output.WriteString("\n")

	return output.String(), nil
}

func (stf *ScreeningTextFormatter) SupportedType() string {
	return "ResumeEvaluation"
}

// ScreeningMarkdownFormatter handles markdown formatting for standalone resume screening
type ScreeningMarkdownFormatter struct{}

func (smf *ScreeningMarkdownFormatter) Format(data any) (string, error) {
	eval, ok := data.(types.ResumeEvaluation)
	if !ok {
		return "", fmt.Errorf("expected ResumeEvaluation, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Screening\n\n")
	output.WriteString(fmt.Sprintf("**Skill Match:** %d%%\n\n", eval.SkillMatch))

	if len(eval.MatchedSkills) > 0 {
		output.WriteString("## Matched Skills\n\n")
		writeList(&output, eval.MatchedSkills)
	}
	if len(eval.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		writeList(&output, eval.MissingSkills)
	}

	output.WriteString(eval.Comment)
	output.WriteString("\n")

	return output.String(), nil
}

func (smf *ScreeningMarkdownFormatter) SupportedType() string {
	return "ResumeEvaluation"
}

// QuestionsTextFormatter handles text formatting for generated interview questions
type QuestionsTextFormatter struct{}

func (qtf *QuestionsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GeneratedQuestions)
	if !ok {
		return "", fmt.Errorf("expected GeneratedQuestions, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW QUESTIONS ===\n\n")
	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}

	return output.String(), nil
}

func (qtf *QuestionsTextFormatter) SupportedType() string {
	return "GeneratedQuestions"
}

// QuestionsMarkdownFormatter handles markdown formatting for generated interview questions
type QuestionsMarkdownFormatter struct{}

func (qmf *QuestionsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.GeneratedQuestions)
	if !ok {
		return "", fmt.Errorf("expected GeneratedQuestions, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Questions\n\n")
	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}

	return output.String(), nil
}

func (qmf *QuestionsMarkdownFormatter) SupportedType() string {
	return "GeneratedQuestions"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
