package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"talentnav/internal/types"
)

func sampleState() *types.PipelineState {
	return &types.PipelineState{
		JobDescription: "Backend engineer role",
		ResumeText:     "Experienced in Go and SQL",
		InterviewQA: []types.QA{
			{Question: "Tell me about a project.", Answer: "Built a payment service."},
		},
		Requirements: &types.RequirementRecord{
			Role:           "Backend Engineer",
			RequiredSkills: []string{"Go", "SQL"},
		},
		ResumeEval: &types.ResumeEvaluation{
			SkillMatch:    50,
			MatchedSkills: []string{"Go"},
			MissingSkills: []string{"SQL"},
			Comment:       "Skill match: 1/2 required skills found (50%).",
		},
		InterviewEval: &types.InterviewEvaluation{
			OverallScore: 70,
			QuestionScores: []types.QuestionScore{
				{Question: "Tell me about a project.", Score: 70, Feedback: "Solid example."},
			},
			Strengths: []string{"Clear communication"},
			Concerns:  []string{"Limited depth"},
		},
		Final: &types.FinalEvaluation{
			OverallScore:   62,
			ResumeScore:    50,
			InterviewScore: 70,
			Recommendation: types.RecommendationMaybe,
			Summary:        "Candidate evaluated for Backend Engineer.",
			KeyStrengths:   []string{"Strong skill match: Go"},
			KeyConcerns:    []string{"Missing skills: SQL"},
		},
	}
}

func TestFormatEvaluationText(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleState(), "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	wantFragments := []string{
		"=== CANDIDATE EVALUATION ===",
		"Overall Score: 62/100",
		"Recommendation: Maybe",
		"=== RESUME SCREENING ===",
		"Skill Match: 50%",
		"Matched Skills: Go",
		"=== INTERVIEW EVALUATION ===",
		"1. Tell me about a project.",
		"Feedback: Solid example.",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q\n%s", fragment, output)
		}
	}
}

func TestFormatEvaluationMarkdown(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleState(), "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	wantFragments := []string{
		"# Candidate Evaluation",
		"**Overall Score:** 62/100",
		"**Recommendation:** Maybe",
		"## Resume Screening",
		"## Interview Evaluation",
		"### Strengths",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q\n%s", fragment, output)
		}
	}
}

func TestFormatPartialState(t *testing.T) {
	registry := NewFormatterRegistry()

	state := &types.PipelineState{}
	output, err := registry.Format(state, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "No evaluation results available.") {
		t.Errorf("empty state should render a placeholder, got %q", output)
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	output, err := registry.Format(sampleState(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.PipelineState
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Final == nil || decoded.Final.Recommendation != types.RecommendationMaybe {
		t.Error("JSON output lost the final recommendation")
	}
}

func TestFormatRequirements(t *testing.T) {
	registry := NewFormatterRegistry()

	record := types.RequirementRecord{
		Role:             "Data Engineer",
		RequiredSkills:   []string{"Python", "Spark"},
		Tools:            []string{"Airflow"},
		Responsibilities: []string{"Maintain pipelines"},
		EmploymentType:   "Full-time",
	}

	output, err := registry.Format(record, "text")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	for _, fragment := range []string{"Role: Data Engineer", "- Python", "- Airflow", "Employment Type: Full-time"} {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestFormatQuestions(t *testing.T) {
	registry := NewFormatterRegistry()

	questions := types.GeneratedQuestions{
		Questions: []string{"What interests you about this role?", "Describe a recent challenge."},
	}

	output, err := registry.Format(questions, "markdown")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(output, "1. What interests you about this role?") {
		t.Errorf("output missing numbered question:\n%s", output)
	}
	if !strings.Contains(output, "2. Describe a recent challenge.") {
		t.Errorf("output missing second question:\n%s", output)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleState(), "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()

	formats := registry.GetSupportedFormats()
	want := map[string]bool{"json": false, "text": false, "markdown": false}
	for _, format := range formats {
		if _, ok := want[format]; ok {
			want[format] = true
		}
	}
	for format, seen := range want {
		if !seen {
			t.Errorf("missing supported format %q", format)
		}
	}
}
