package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talentnav/internal/config"
	"talentnav/internal/errors"
	"talentnav/internal/observability"
	"talentnav/internal/pipeline"
	"talentnav/internal/types"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func testAppConfig() *config.Config {
	return &config.Config{
		Scoring: config.ScoringConfig{
			ResumeWeight:    0.4,
			InterviewWeight: 0.6,
			StrongHireMin:   80,
			HireMin:         65,
			MaybeMin:        50,
		},
	}
}

func testObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(
		observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("failed to create observability manager: %v", err)
	}
	return om
}

// testServer builds a server whose pipeline has no generators configured,
// so every stage takes its deterministic path.
func testServer(t *testing.T, cfg ServerConfig) (*Server, http.Handler) {
	t.Helper()
	logger := testLogger(t)
	appCfg := testAppConfig()

	s := NewServer(appCfg, cfg, logger)
	om := testObservability(t)

	pipe := pipeline.New(appCfg, pipeline.Generators{}, logger, nil)
	questions := pipeline.NewQuestionGenerator(nil, appCfg, logger)

	return s, s.setupRoutes(om, pipe, questions)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEvaluateEndpointDegradedRun(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	body := `{
		"jobDescription": "Backend Engineer. Required skills: Go, SQL.",
		"resumeText": "Built services in Go with SQL storage.",
		"interviewQA": [{"question": "Tell me about Go.", "answer": "I have used Go for years building APIs and services in production."}]
	}`
	rec := postJSON(t, handler, "/evaluate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var state types.PipelineState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if state.Final == nil {
		t.Fatal("expected final evaluation in response")
	}
	if state.Final.Recommendation == "" {
		t.Error("expected a recommendation")
	}
	if state.Requirements == nil || state.ResumeEval == nil || state.InterviewEval == nil {
		t.Error("expected all stage outputs to be populated")
	}
}

func TestEvaluateEndpointRejectsEmptyRequest(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	rec := postJSON(t, handler, "/evaluate", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEvaluateEndpointRejectsNonJSONContentType(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeJDEndpointRequiresJobDescription(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	rec := postJSON(t, handler, "/analyze-jd", `{"jobDescription": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestScreenResumeEndpointDegradedRun(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	rec := postJSON(t, handler, "/screen-resume", `{
		"jobDescription": "Data Engineer. Required skills: Python, Spark.",
		"resumeText": "Pipelines in Python."
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var eval types.ResumeEvaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &eval); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if eval.SkillMatch < 0 || eval.SkillMatch > 100 {
		t.Errorf("skill match = %d, want within [0,100]", eval.SkillMatch)
	}
}

func TestGenerateInterviewEndpoint(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	rec := postJSON(t, handler, "/generate-interview", `{"jobTitle": "SRE", "count": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var result types.GeneratedQuestions
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Questions) != 3 {
		t.Errorf("question count = %d, want 3", len(result.Questions))
	}
}

func TestGenerateInterviewEndpointRequiresRoleContext(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20})

	rec := postJSON(t, handler, "/generate-interview", `{"count": 3}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		apiKeys    []string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "no keys configured skips auth",
			apiKeys:    nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing key rejected",
			apiKeys:    []string{"secret-key-123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid key rejected",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"X-API-Key": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid header key accepted",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"X-API-Key": "secret-key-123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token accepted",
			apiKeys:    []string{"secret-key-123"},
			header:     map[string]string{"Authorization": "Bearer secret-key-123"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := testServer(t, ServerConfig{APIKeys: tt.apiKeys})

			called := false
			wrapped := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/evaluate", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			wrapped(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; called != wantCalled {
				t.Errorf("handler called = %v, want %v", called, wantCalled)
			}
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 64})

	body := `{"jobDescription": "` + strings.Repeat("x", 200) + `"}`
	rec := postJSON(t, handler, "/analyze-jd", body)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "too large") {
		t.Errorf("body = %s, want request-too-large error", rec.Body.String())
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rateLimit := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
		Window:         time.Minute,
	}
	_, handler := testServer(t, ServerConfig{MaxRequestSize: 1 << 20, RateLimit: rateLimit})

	first := postJSON(t, handler, "/generate-interview", `{"jobTitle": "SRE"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", first.Code, http.StatusOK)
	}

	second := postJSON(t, handler, "/generate-interview", `{"jobTitle": "SRE"}`)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		byAPIKey bool
		byIP     bool
		header   map[string]string
		remote   string
		want     string
	}{
		{
			name:     "api key preferred",
			byAPIKey: true,
			byIP:     true,
			header:   map[string]string{"X-API-Key": "abc"},
			want:     "api:abc",
		},
		{
			name:     "bearer token as api key",
			byAPIKey: true,
			header:   map[string]string{"Authorization": "Bearer tok"},
			want:     "api:tok",
		},
		{
			name:   "ip fallback",
			byIP:   true,
			remote: "10.1.2.3:5555",
			want:   "ip:10.1.2.3",
		},
		{
			name: "nothing enabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := getRateLimitKey(req, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{
			name:   "forwarded for first valid ip",
			header: map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7"},
			remote: "10.0.0.1:80",
			want:   "203.0.113.7",
		},
		{
			name:   "real ip",
			header: map[string]string{"X-Real-IP": "198.51.100.2"},
			remote: "10.0.0.1:80",
			want:   "198.51.100.2",
		},
		{
			name:   "remote addr",
			remote: "192.0.2.9:1234",
			want:   "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestHealthHandlerDegradedWithoutProviders(t *testing.T) {
	_, handler := testServer(t, ServerConfig{Version: "test"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// No provider credentials are configured, so every operation reports
	// unavailable and the service is degraded rather than down.
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var health map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if health["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", health["status"])
	}
	models, ok := health["ai_models"].(map[string]any)
	if !ok {
		t.Fatalf("ai_models missing from response: %v", health)
	}
	for _, operation := range []string{"analyze", "screen", "interview", "summary", "questions"} {
		if _, exists := models[operation]; !exists {
			t.Errorf("missing %s model status", operation)
		}
	}
}

func TestStatsHandler(t *testing.T) {
	_, handler := testServer(t, ServerConfig{
		Version:        "test",
		MaxRequestSize: 2048,
		RateLimit:      &config.RateLimitConfig{Enabled: false},
	})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats["service"] != "talentnav" {
		t.Errorf("service = %v, want talentnav", stats["service"])
	}
	if stats["version"] != "test" {
		t.Errorf("version = %v, want test", stats["version"])
	}
}
