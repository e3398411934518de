package api

import (
	"log/slog"
	"net/http"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embed"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docsift.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	provider     *embed.OpenAIProvider
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, provider *embed.OpenAIProvider, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		provider:     provider,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/analyze/{jobID}/status", s.handleAnalyzeStatus)
		r.Get("/api/analyze/{jobID}/result", s.handleAnalyzeResult)
		r.Get("/api/stats/embeddings", s.handleEmbeddingStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
