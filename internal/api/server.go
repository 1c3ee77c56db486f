package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/kitesidebar/internal/config"
	"github.com/dgallion1/kitesidebar/internal/document"
	"github.com/dgallion1/kitesidebar/internal/kited"
	"github.com/dgallion1/kitesidebar/internal/router"
)

// Server is the HTTP content server that stands in for the editor's sidebar panel.
type Server struct {
	mux   chi.Router
	nav   *router.Router
	docs  *document.Store
	stats *kited.Stats
	log   *slog.Logger
	cfg   config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(nav *router.Router, docs *document.Store, stats *kited.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		nav:   nav,
		docs:  docs,
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/navigate", s.handleNavigate)
		r.Get("/api/content", s.handleContent)
		r.Get("/api/render", s.handleRender)

		r.Put("/api/document", s.handlePutDocument)
		r.Delete("/api/document", s.handleDeleteDocument)

		r.Get("/api/stats/kited", s.handleKitedStats)
	})

	s.mux = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
