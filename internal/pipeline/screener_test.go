package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentnav/internal/types"
)

func requirementsWithSkills(skills ...string) *types.RequirementRecord {
	rec := types.NewRequirementRecord()
	rec.Role = "Engineer"
	rec.RequiredSkills = skills
	return &rec
}

func TestResumeScreenerGuards(t *testing.T) {
	tests := []struct {
		name         string
		resume       string
		requirements *types.RequirementRecord
	}{
		{name: "empty resume", resume: "", requirements: requirementsWithSkills("Go")},
		{name: "whitespace resume", resume: "  \n ", requirements: requirementsWithSkills("Go")},
		{name: "nil requirements", resume: "a resume", requirements: nil},
		{name: "empty requirements", resume: "a resume", requirements: &types.RequirementRecord{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{available: true}
			screener := NewResumeScreener(gen, defaultScreenTemplate, nil)
			state := types.NewPipelineState("", tt.resume, nil)
			state.Requirements = tt.requirements

			outcome := screener.Run(context.Background(), state)

			if outcome.Fallback {
				t.Error("guard path is not a fallback")
			}
			if len(gen.prompts) != 0 {
				t.Error("expected no generation call on the guard path")
			}
			eval := state.ResumeEval
			if eval.SkillMatch != 0 || len(eval.MatchedSkills) != 0 || len(eval.MissingSkills) != 0 {
				t.Errorf("expected zeroed default evaluation, got %+v", eval)
			}
			if eval.Comment != unableToEvaluateComment {
				t.Errorf("comment = %q, want %q", eval.Comment, unableToEvaluateComment)
			}
		})
	}
}

func TestResumeScreenerKeywordFallback(t *testing.T) {
	// Service unavailable, required=[Python, AWS], resume contains "python"
	// only: matched=[Python], missing=[AWS], skill_match=50.
	gen := &fakeGenerator{available: false}
	screener := NewResumeScreener(gen, defaultScreenTemplate, nil)

	state := types.NewPipelineState("", "Built services in python for five years.", nil)
	state.Requirements = requirementsWithSkills("Python", "AWS")

	outcome := screener.Run(context.Background(), state)

	if !outcome.Fallback {
		t.Error("expected fallback outcome when service is unavailable")
	}
	eval := state.ResumeEval
	if eval.SkillMatch != 50 {
		t.Errorf("SkillMatch = %d, want 50", eval.SkillMatch)
	}
	if len(eval.MatchedSkills) != 1 || eval.MatchedSkills[0] != "Python" {
		t.Errorf("MatchedSkills = %v, want [Python] with original spelling", eval.MatchedSkills)
	}
	if len(eval.MissingSkills) != 1 || eval.MissingSkills[0] != "AWS" {
		t.Errorf("MissingSkills = %v, want [AWS]", eval.MissingSkills)
	}
	if !strings.Contains(eval.Comment, "1/2") {
		t.Errorf("comment = %q, want matched/total counts", eval.Comment)
	}
}

func TestResumeScreenerFallbackNoRequiredSkills(t *testing.T) {
	gen := &fakeGenerator{available: false}
	screener := NewResumeScreener(gen, defaultScreenTemplate, nil)

	state := types.NewPipelineState("", "a resume", nil)
	rec := types.NewRequirementRecord()
	rec.Role = "Engineer" // non-empty record but no required skills
	state.Requirements = &rec

	screener.Run(context.Background(), state)

	if state.ResumeEval.SkillMatch != 0 {
		t.Errorf("SkillMatch = %d, want 0 with no required skills", state.ResumeEval.SkillMatch)
	}
}

func TestResumeScreenerLivePath(t *testing.T) {
	response := "```json\n" + `{
		"skill_match": 75,
		"matched_skills": ["Go", "go", "Kubernetes"],
		"missing_skills": ["Rust"],
		"comment": "Solid overlap."
	}` + "\n```"
	gen := &fakeGenerator{available: true, response: response}
	screener := NewResumeScreener(gen, defaultScreenTemplate, nil)

	state := types.NewPipelineState("", "resume text", nil)
	state.Requirements = requirementsWithSkills("Go", "Kubernetes", "Rust")

	outcome := screener.Run(context.Background(), state)

	if outcome.Fallback {
		t.Fatalf("unexpected fallback: %v", outcome.Err)
	}
	eval := state.ResumeEval
	if eval.SkillMatch != 75 {
		t.Errorf("SkillMatch = %d, want 75", eval.SkillMatch)
	}
	if len(eval.MatchedSkills) != 2 {
		t.Errorf("MatchedSkills = %v, want case-insensitive dedup to 2 entries", eval.MatchedSkills)
	}
	if eval.Comment != "Solid overlap." {
		t.Errorf("Comment = %q", eval.Comment)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "resume text") {
		t.Error("expected prompt embedding the resume text")
	}
}

func TestResumeScreenerLivePathClampsScore(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
	}{
		{name: "above range", response: `{"skill_match": 150, "matched_skills": ["Go"], "missing_skills": []}`, want: 100},
		{name: "below range", response: `{"skill_match": -20, "matched_skills": [], "missing_skills": ["Go"]}`, want: 0},
		{name: "non-numeric recomputed", response: `{"skill_match": "high", "matched_skills": ["Go"], "missing_skills": ["Rust"]}`, want: 50},
		{name: "percent string", response: `{"skill_match": "80%", "matched_skills": ["Go"], "missing_skills": []}`, want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{available: true, response: tt.response}
			screener := NewResumeScreener(gen, defaultScreenTemplate, nil)
			state := types.NewPipelineState("", "resume", nil)
			state.Requirements = requirementsWithSkills("Go", "Rust")

			screener.Run(context.Background(), state)

			if state.ResumeEval.SkillMatch != tt.want {
				t.Errorf("SkillMatch = %d, want %d", state.ResumeEval.SkillMatch, tt.want)
			}
		})
	}
}

func TestResumeScreenerTransportErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{available: true, err: errors.New("boom")}
	screener := NewResumeScreener(gen, defaultScreenTemplate, nil)

	state := types.NewPipelineState("", "python experience", nil)
	state.Requirements = requirementsWithSkills("Python")

	outcome := screener.Run(context.Background(), state)

	if !outcome.Fallback || outcome.Err == nil {
		t.Error("expected fallback with diagnostic error")
	}
	if state.ResumeEval.SkillMatch != 100 {
		t.Errorf("SkillMatch = %d, want containment fallback result 100", state.ResumeEval.SkillMatch)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		count, total, want int
	}{
		{1, 2, 50},
		{2, 3, 67}, // rounds, not truncates
		{0, 0, 0},  // division-by-zero guard
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := percentage(tt.count, tt.total); got != tt.want {
			t.Errorf("percentage(%d, %d) = %d, want %d", tt.count, tt.total, got, tt.want)
		}
	}
}
