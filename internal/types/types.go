package types

// QA is a single interview question/answer pair.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RequirementRecord is the normalized structured summary of a job description.
// Fields default to empty strings and empty slices, never nil, so downstream
// stages need no nil checks.
type RequirementRecord struct {
	Role              string   `json:"role"`
	RequiredSkills    []string `json:"requiredSkills"`
	Tools             []string `json:"tools"`
	MinimumExperience string   `json:"minimumExperience"`
	Responsibilities  []string `json:"responsibilities"`
	Education         string   `json:"education"`
	EmploymentType    string   `json:"employmentType"` // Full-time, Part-time, Internship, Contract, Not specified
}

// NewRequirementRecord returns an all-defaults record with non-nil slices.
func NewRequirementRecord() RequirementRecord {
	return RequirementRecord{
		RequiredSkills:   []string{},
		Tools:            []string{},
		Responsibilities: []string{},
	}
}

// IsEmpty reports whether the record carries no signal at all.
func (r RequirementRecord) IsEmpty() bool {
	return r.Role == "" &&
		len(r.RequiredSkills) == 0 &&
		len(r.Tools) == 0 &&
		r.MinimumExperience == "" &&
		len(r.Responsibilities) == 0 &&
		r.Education == "" &&
		r.EmploymentType == ""
}

// ResumeEvaluation is the Resume Screener stage output.
// SkillMatch is always clamped into [0,100]; the skill lists are
// deduplicated while preserving first-seen order.
type ResumeEvaluation struct {
	SkillMatch    int      `json:"skillMatch"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Comment       string   `json:"comment"`
}

// QuestionScore is the per-question result of the Interview Evaluator.
type QuestionScore struct {
	Question string `json:"question"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// InterviewEvaluation is the Interview Evaluator stage output.
// QuestionScores holds exactly one entry per input QA pair, in input order.
type InterviewEvaluation struct {
	OverallScore   int             `json:"overallScore"`
	QuestionScores []QuestionScore `json:"questionScores"`
	Strengths      []string        `json:"strengths"`
	Concerns       []string        `json:"concerns"`
}

// Recommendation values produced by the Score Aggregator.
const (
	RecommendationStrongHire = "Strong Hire"
	RecommendationHire       = "Hire"
	RecommendationMaybe      = "Maybe"
	RecommendationNoHire     = "No Hire"
)

// FinalEvaluation is the aggregated hiring recommendation. OverallScore and
// Recommendation are deterministic functions of the stage scores; only the
// Summary may come from the generation service.
type FinalEvaluation struct {
	OverallScore   int      `json:"overallScore"`
	ResumeScore    int      `json:"resumeScore"`
	InterviewScore int      `json:"interviewScore"`
	Recommendation string   `json:"recommendation"`
	Summary        string   `json:"summary"`
	KeyStrengths   []string `json:"keyStrengths"` // max 5
	KeyConcerns    []string `json:"keyConcerns"`  // max 3
}

// PipelineState is the single record threaded through all four stages of one
// evaluation run. Inputs are immutable once set; each intermediate field is
// written exactly once by its owning stage. A nil intermediate field means
// its stage has not run yet.
type PipelineState struct {
	// Inputs
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
	InterviewQA    []QA   `json:"interviewQA"`

	// Stage outputs
	Requirements  *RequirementRecord   `json:"requirements,omitempty"`
	ResumeEval    *ResumeEvaluation    `json:"resumeEval,omitempty"`
	InterviewEval *InterviewEvaluation `json:"interviewEval,omitempty"`
	Final         *FinalEvaluation     `json:"final,omitempty"`
}

// NewPipelineState builds the initial state for one run. A nil QA slice is
// normalized to an empty one so stages can range over it safely.
func NewPipelineState(jobDescription, resumeText string, interviewQA []QA) *PipelineState {
	if interviewQA == nil {
		interviewQA = []QA{}
	}
	return &PipelineState{
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		InterviewQA:    interviewQA,
	}
}

// GeneratedQuestions is the output of the interview question generator.
type GeneratedQuestions struct {
	Questions []string `json:"questions"`
}
