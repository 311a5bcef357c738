// ABOUTME: Storyboard HTTP server wiring the chi router, middleware, and handlers.
// ABOUTME: Serves the board UI, generation form, move/update endpoints, and exports.
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/generate"
	"github.com/2389-research/storyboard/llm"
	"github.com/2389-research/storyboard/server"
	"github.com/2389-research/storyboard/store"
)

// Server is the storyboard HTTP server.
type Server struct {
	store    *store.Store
	gateway  llm.Gateway
	pipeline *generate.Pipeline
	renderer *TemplateRenderer
	router   chi.Router
	cfg      *server.Config
}

// NewServer creates a Server backed by the given store and model gateway.
// The gateway may be nil, in which case the generation endpoint reports
// that no provider is configured.
func NewServer(cfg *server.Config, st *store.Store, gateway llm.Gateway) (*Server, error) {
	renderer, err := NewTemplateRenderer(ContentFS)
	if err != nil {
		return nil, fmt.Errorf("initializing templates: %w", err)
	}

	s := &Server{
		store:    st,
		gateway:  gateway,
		renderer: renderer,
		cfg:      cfg,
	}
	if gateway != nil {
		s.pipeline = generate.NewPipeline(gateway, st)
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured bind address with
// timeouts that prevent resource exhaustion from slow clients.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Bind,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.AuthToken != "" {
		r.Use(server.AuthMiddleware(s.cfg.AuthToken))
		r.Get("/login", server.LoginHandler(s.cfg.AuthToken))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/static/*", http.FileServer(http.FS(ContentFS)))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)

	r.Route("/specs/{specID}", func(r chi.Router) {
		r.Get("/", s.handleBoardPage)
		r.Get("/board", s.handleBoardPartial)
		r.Get("/export/markdown", s.handleExportMarkdown)
		r.Get("/export/yaml", s.handleExportYAML)

		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Get("/edit", s.handleEditForm)
			r.Post("/", s.handleUpdateItem)
			r.Post("/move", s.handleMoveItem)
			r.Post("/delete", s.handleDeleteItem)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// parseSpecID extracts and validates the specID URL parameter. On failure it
// writes a 400 response and returns ok=false.
func parseSpecID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "specID"))
	if err != nil {
		http.Error(w, "invalid spec id", http.StatusBadRequest)
		return ulid.ULID{}, false
	}
	return id, true
}

// parseItemID extracts and validates the itemID URL parameter.
func parseItemID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return ulid.ULID{}, false
	}
	return id, true
}
