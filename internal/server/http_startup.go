package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentnav/internal/ai"
	"talentnav/internal/config"
	"talentnav/internal/observability"
	"talentnav/internal/pipeline"
)

// Start starts the HTTP server with all configured components
func (s *Server) Start() error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	pipe, questions, err := s.buildPipeline(om)
	if err != nil {
		return err
	}

	watcher := s.startPromptWatcher(om)
	if watcher != nil {
		defer func() {
			if err := watcher.Stop(); err != nil {
				s.Logger.LogError(err, "Failed to stop prompt template watcher")
			}
		}()
	}

	httpServer := s.setupHTTPServer(om, pipe, questions)

	s.Logger.Info("Server configuration",
		"address", httpServer.Addr,
		"auth_enabled", len(s.APIKeys) > 0,
		"rate_limiting", s.RateLimiter != nil,
		"max_request_size", s.MaxRequestSize)

	return s.startWithGracefulShutdown(httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// buildPipeline constructs the long-lived evaluation pipeline and question
// generator with one generator per operation. An operation whose provider
// is unconfigured gets an unconfigured generator and runs on fallbacks.
func (s *Server) buildPipeline(om *observability.ObservabilityManager) (*pipeline.Pipeline, *pipeline.QuestionGenerator, error) {
	newGenerator := func(operation string) (ai.TextGenerator, error) {
		opConfig := s.AppConfig.GetOperationConfig(operation)
		generator, err := ai.NewService(&opConfig, operation, s.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s generator: %w", operation, err)
		}
		return observability.NewInstrumentedGenerator(generator, operation, om), nil
	}

	var gens pipeline.Generators
	var err error
	if gens.Analyze, err = newGenerator(config.OperationAnalyze); err != nil {
		return nil, nil, err
	}
	if gens.Screen, err = newGenerator(config.OperationScreen); err != nil {
		return nil, nil, err
	}
	if gens.Interview, err = newGenerator(config.OperationInterview); err != nil {
		return nil, nil, err
	}
	if gens.Summary, err = newGenerator(config.OperationSummary); err != nil {
		return nil, nil, err
	}

	questionsGen, err := newGenerator(config.OperationQuestions)
	if err != nil {
		return nil, nil, err
	}

	recorder := observability.NewPipelineRecorder(om)
	pipe := pipeline.New(s.AppConfig, gens, s.Logger, recorder)
	questions := pipeline.NewQuestionGenerator(questionsGen, s.AppConfig, s.Logger)

	return pipe, questions, nil
}

// startPromptWatcher begins reloading prompt template overrides when their
// files change, counting each reload attempt. Returns nil when the watcher
// could not start; serving continues with the templates loaded at startup.
func (s *Server) startPromptWatcher(om *observability.ObservabilityManager) *config.PromptWatcher {
	watcher := config.NewPromptWatcher(config.WatchedPromptFiles(), 0, s.Logger)
	watcher.OnReload = func(path string, err error) {
		om.GetMetrics().RecordPromptReload(context.Background(), err == nil)
	}

	if err := watcher.Start(); err != nil {
		s.Logger.LogError(err, "Failed to start prompt template watcher")
		return nil
	}
	return watcher
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager, pipe *pipeline.Pipeline, questions *pipeline.QuestionGenerator) *http.Server {
	mux := s.setupRoutes(om, pipe, questions)
	handler := om.HTTPMiddleware()(mux)
	addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		s.Logger.Info("Starting HTTP server", "address", server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Wait for either a signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())

		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Clean up rate limiter if enabled
	s.cleanupRateLimiter()

	// Attempt graceful shutdown of HTTP server
	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
