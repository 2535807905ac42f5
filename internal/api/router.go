package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meur/itemsapi/internal/observability"
	"github.com/meur/itemsapi/internal/storage"
)

// Server holds the HTTP server dependencies
type Server struct {
	store    *storage.Store
	reloader *storage.Reloader
	router   chi.Router
}

// Option configures a Server
type Option func(*Server)

// WithReloadEndpoint exposes POST /admin/reload backed by reloader
func WithReloadEndpoint(reloader *storage.Reloader) Option {
	return func(s *Server) {
		s.reloader = reloader
	}
}

// New creates a new API server
func New(store *storage.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(observability.ServerTimingMiddleware)
	// Any origin may call the API; the origin is echoed so credentialed requests work too.
	s.router.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"ETag", "Server-Timing"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/", s.handleHealth)

	s.router.Get("/categories", s.handleGetCategories)
	s.router.Get("/items", s.handleListItems)
	s.router.Get("/items/{id}", s.handleGetItem)

	if s.reloader != nil {
		s.router.Post("/admin/reload", s.handleReload)
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
