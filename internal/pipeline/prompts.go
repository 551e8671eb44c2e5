package pipeline

// Built-in prompt templates for each generation operation. Every template is
// a fmt-style format string; operators can override any of them through the
// ai.<operation>.prompt configuration keys.

const defaultAnalyzeTemplate = `You are a helpful assistant that extracts structured information from a job description.
Given the following job description, produce a JSON object ONLY (no explanation or extra text) with the exact keys:
role, required_skills, tools, minimum_experience, responsibilities, education, employment_type.
- role: short string title
- required_skills: array of short strings (technology or skill names)
- tools: array of short strings (tools or technologies)
- minimum_experience: short string like '2 years' or 'Not specified'
- responsibilities: array of short bullet strings (2-8 items ideally)
- education: short string if present otherwise empty string
- employment_type: Full-time / Part-time / Internship / Contract / Not specified

Return valid JSON only.

Job Description:
%s
`

const defaultScreenTemplate = `You are an expert HR analyst. Compare the candidate's resume against the job requirements.

**Job Requirements:**
%s

**Candidate Resume:**
%s

Your Task:
1. List which required skills are present in the resume, matching semantically rather than by exact keyword (matched_skills).
2. List which required skills are missing (missing_skills).
3. Compute a Skill Match percentage (0-100): base = (#matched / #required) x 100, with small bonus/penalty adjustments for depth of experience, clamped to [0,100].
4. Write a 1-2 sentence summary.

Return ONLY valid JSON:
{
  "skill_match": <integer>,
  "matched_skills": ["skill1", "skill2", ...],
  "missing_skills": ["skill3", "skill4", ...],
  "comment": "Brief summary here."
}
`

const defaultInterviewTemplate = `You are an experienced technical interviewer. Evaluate the candidate's interview responses based on the job requirements.

**Job Requirements:**
%s

**Interview Q&A:**
%s

**Evaluation Criteria:**
- Relevance to job requirements (40%%)
- Technical depth and accuracy (30%%)
- Communication clarity (15%%)
- Examples and specificity (15%%)

**Your Task:**
1. Score each answer (0-100)
2. Calculate an overall interview score (0-100)
3. Identify 2-3 strengths demonstrated
4. Identify 1-2 concerns or gaps

Return ONLY valid JSON with this structure:
{
  "overall_score": <integer 0-100>,
  "question_scores": [
    {"question": "Q1 text", "score": <0-100>, "feedback": "brief feedback"},
    ...
  ],
  "strengths": ["strength1", "strength2", ...],
  "concerns": ["concern1", "concern2", ...]
}
`

const defaultSummaryTemplate = `You are an HR assistant writing a final candidate evaluation summary.
The scores and recommendation below were computed deterministically and are fixed facts.
Do not recompute, question, or change them; rationalize them in prose.

Role: %s
Resume skill match: %d%%
Interview score: %d%%
Overall score: %d%%
Recommendation: %s
Matched skills: %s
Missing skills: %s

Write 2-3 plain sentences summarizing this evaluation for a hiring manager.
Return the summary text only, with no headings or markdown.
`

const defaultQuestionsTemplate = `You are an experienced interviewer preparing a screening round.

**Role / Context:**
%s

Generate exactly %d interview questions tailored to this role. Mix behavioral and technical questions.

Return ONLY valid JSON:
{
  "questions": ["question1", "question2", ...]
}
`
