package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"talentnav/internal/observability"
	"talentnav/internal/pipeline"

	"go.opentelemetry.io/otel/attribute"
)

// createEvaluateHandler runs the full four-stage evaluation pipeline.
func (s *Server) createEvaluateHandler(om *observability.ObservabilityManager, pipe *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentnav.api")
		ctx, span := tracer.Start(ctx, "api.evaluate")
		defer span.End()

		var req EvaluateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Empty inputs are legitimate degraded-mode runs, but a request with
		// nothing at all in it is a caller mistake.
		if strings.TrimSpace(req.JobDescription) == "" &&
			strings.TrimSpace(req.ResumeText) == "" &&
			len(req.InterviewQA) == 0 {
			err := fmt.Errorf("empty evaluation request")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Empty evaluation request", "at least one of jobDescription, resumeText, or interviewQA is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.qa_count", len(req.InterviewQA)),
			attribute.String("operation", "evaluate"),
		)

		state, err := pipe.Evaluate(ctx, req.JobDescription, req.ResumeText, req.InterviewQA)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "pipeline"))
			writeErrorResponse(w, "Failed to evaluate candidate", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.overall_score", state.Final.OverallScore),
			attribute.String("response.recommendation", state.Final.Recommendation),
		)

		writeJSONResponse(w, state)
	}
}

// createAnalyzeJDHandler runs only the requirement analysis stage.
func (s *Server) createAnalyzeJDHandler(om *observability.ObservabilityManager, pipe *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentnav.api")
		ctx, span := tracer.Start(ctx, "api.analyze_jd")
		defer span.End()

		var req AnalyzeJDRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		record := pipe.AnalyzeJD(ctx, req.JobDescription)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.required_skills", len(record.RequiredSkills)),
		)

		writeJSONResponse(w, record)
	}
}

// createScreenResumeHandler runs requirement analysis plus resume screening.
func (s *Server) createScreenResumeHandler(om *observability.ObservabilityManager, pipe *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentnav.api")
		ctx, span := tracer.Start(ctx, "api.screen_resume")
		defer span.End()

		var req ScreenResumeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "screen"),
		)

		eval := pipe.ScreenResume(ctx, req.JobDescription, req.ResumeText)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skill_match", eval.SkillMatch),
		)

		writeJSONResponse(w, eval)
	}
}

// createScoreInterviewHandler runs requirement analysis plus interview scoring.
func (s *Server) createScoreInterviewHandler(om *observability.ObservabilityManager, pipe *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentnav.api")
		ctx, span := tracer.Start(ctx, "api.score_interview")
		defer span.End()

		var req ScoreInterviewRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.qa_count", len(req.InterviewQA)),
			attribute.String("operation", "interview"),
		)

		eval := pipe.ScoreInterview(ctx, req.JobDescription, req.InterviewQA)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.overall_score", eval.OverallScore),
		)

		writeJSONResponse(w, eval)
	}
}

// createGenerateQuestionsHandler produces interview questions for a role.
func (s *Server) createGenerateQuestionsHandler(om *observability.ObservabilityManager, questions *pipeline.QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentnav.api")
		ctx, span := tracer.Start(ctx, "api.generate_interview")
		defer span.End()

		var req GenerateQuestionsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobTitle) == "" && strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing role context")
			span.RecordError(err)
			writeErrorResponse(w, "Missing role context", "jobTitle or jobDescription is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.count", req.Count),
			attribute.String("operation", "questions"),
		)

		result := questions.Generate(ctx, req.JobTitle, req.JobDescription, req.Count)

		metrics := om.GetMetrics()
		metrics.RecordQuestionsGenerated(ctx, om,
			attribute.Int("question_count", len(result.Questions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.question_count", len(result.Questions)),
		)

		writeJSONResponse(w, result)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordRateLimitHit(r.Context(), om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes a successful response body.
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
