// Package server exposes the pipeline over HTTP: the questionnaire form
// posts its answers and receives the cover letter document.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/docx"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/pipeline"
	"github.com/spigell/jobsai/internal/profile"
	"github.com/spigell/jobsai/internal/report"
)

const (
	DefaultListen = ":8000"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, answers profile.Answers) (*pipeline.Result, error)
}

// Server serves the form endpoint. Runs are serialized because a run
// assumes exclusive access to the data directory.
type Server struct {
	listen string
	runner Runner
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a Server.
func New(listen string, runner Runner, log *zap.Logger) *Server {
	if listen == "" {
		listen = DefaultListen
	}
	return &Server{listen: listen, runner: runner, logger: logger.OrNop(log)}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/endpoint", s.handleEndpoint)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(mux)
}

// Run listens until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("listen", s.listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEndpoint(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body failed", nil)
		return
	}

	answers, err := profile.ParseAnswers(body)
	if err != nil {
		s.logger.Info("rejecting invalid answers", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, "invalid answers", validationDetails(err))
		return
	}

	s.mu.Lock()
	res, err := s.runner.Run(r.Context(), answers)
	s.mu.Unlock()

	if err != nil {
		status := Status(err)
		s.logger.Error("pipeline run failed", zap.Int("status", status), zap.Error(err))
		writeError(w, status, err.Error(), nil)
		return
	}
	if res == nil || res.Letter == nil || len(res.Letter.Data) == 0 {
		writeError(w, http.StatusInternalServerError, "no cover letter was generated", nil)
		return
	}

	w.Header().Set("Content-Type", docx.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Letter.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Letter.Data); err != nil {
		s.logger.Warn("writing response failed", zap.Error(err))
	}
}

// Status maps a pipeline error to its HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, profile.ErrUnparseable), errors.Is(err, report.ErrNoJobs):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrInvalidAnswers):
		return http.StatusUnprocessableEntity
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func validationDetails(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Rule: "layout", Value: err.Error()}}
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Value: fmt.Sprint(fe.Value()),
		})
	}
	return details
}

func writeError(w http.ResponseWriter, status int, message string, details []FieldError) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(started)),
		)
	})
}
