package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/katsuyo"
	"github.com/aretw0/katsuyo/internal/logging"
	"github.com/aretw0/katsuyo/pkg/domain"
	"github.com/aretw0/katsuyo/pkg/fst"
	"github.com/aretw0/katsuyo/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBatchWords bounds the words accepted by one POST /paradigms request.
const MaxBatchWords = 500

// Server serves conjugations over HTTP.
type Server struct {
	Engine  ports.Conjugator
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Conjugator, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/cells", server.GetCells)
	r.Get("/conjugate", server.GetConjugate)
	r.Get("/paradigm/{word}", server.GetParadigm)
	r.Post("/paradigms", server.PostParadigms)
	r.Get("/graph/{name}", server.GetGraph)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ConjugateResponse is the body of GET /conjugate.
type ConjugateResponse struct {
	Word    string `json:"word"`
	Cell    string `json:"cell"`
	Surface string `json:"surface"`
}

// ParadigmsRequest is the body of POST /paradigms.
type ParadigmsRequest struct {
	Words []string `json:"words"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "katsuyo-http",
		"version": strings.TrimSpace(katsuyo.Version),
		"cells":   len(s.Engine.Cells()),
	})
}

// GetCells handles the GET /cells request.
func (s *Server) GetCells(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Cells())
}

// GetConjugate handles the GET /conjugate?word=&cell= request.
func (s *Server) GetConjugate(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	cell := r.URL.Query().Get("cell")
	if word == "" || cell == "" {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "word and cell are required"})
		return
	}

	surface, err := s.Engine.Conjugate(r.Context(), word, cell)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ConjugateResponse{Word: word, Cell: cell, Surface: surface})
}

// GetParadigm handles the GET /paradigm/{word} request.
func (s *Server) GetParadigm(w http.ResponseWriter, r *http.Request) {
	p, err := s.Engine.Paradigm(r.Context(), chi.URLParam(r, "word"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// PostParadigms handles the POST /paradigms request.
func (s *Server) PostParadigms(w http.ResponseWriter, r *http.Request) {
	var body ParadigmsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.Logger.Warn("PostParadigms: invalid request body", "err", err)
		return
	}
	if len(body.Words) == 0 || len(body.Words) > MaxBatchWords {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("between 1 and %d words are required", MaxBatchWords)})
		return
	}

	results, err := s.Engine.Batch(r.Context(), body.Words)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

// GetGraph handles the GET /graph/{name} request. The body is Mermaid source.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	mermaid, err := s.Engine.Graph(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(mermaid))
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCellNotFound), errors.Is(err, domain.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotApplicable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fst.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.Logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down, giving outstanding
// requests the grace period to complete.
func Serve(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting katsuyo server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("start shutdown", "grace", grace)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "grace", grace, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("katsuyo server stopped gracefully")
		return nil
	}
}
