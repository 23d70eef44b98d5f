// Package server exposes module graphs over HTTP.
//
// Routes:
//
//	GET /                        landing page
//	GET /dependencies-of/{slug}  graph page, or ?format=json|dot|svg|png|jpg
//	GET /dependencies-of/?url=   redirect to the slug of a module URL
//	GET /shields/{id}/{slug}     shields.io endpoint badges
//	GET /shields/setup/{slug}    badge embedding instructions
//	GET /registry-key            color legend
//	GET /healthz                 liveness and build info
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/resolve"
	"github.com/cloudydeno/module-visualizer/pkg/shields"
)

const (
	// DefaultPageFont is the node font of graphs embedded in HTML pages.
	DefaultPageFont = "Archivo Narrow"

	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string
	// PageFont overrides DefaultPageFont.
	PageFont string
	Logger   *log.Logger
}

// Server routes HTTP requests to the pipeline.
type Server struct {
	Runner   *pipeline.Runner
	Resolver *resolve.Resolver
	Shields  *shields.Service
	Logger   *log.Logger

	CORSOrigin string
	PageFont   string

	started time.Time
	router  chi.Router
}

// New creates a Server. Badges are computed with runner unless shieldSvc
// is given.
func New(runner *pipeline.Runner, resolver *resolve.Resolver, shieldSvc *shields.Service, opts Options) *Server {
	s := &Server{
		Runner:     runner,
		Resolver:   resolver,
		Shields:    shieldSvc,
		Logger:     opts.Logger,
		CORSOrigin: opts.CORSOrigin,
		PageFont:   opts.PageFont,
		started:    time.Now(),
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.CORSOrigin == "" {
		s.CORSOrigin = "*"
	}
	if s.PageFont == "" {
		s.PageFont = DefaultPageFont
	}
	if s.Shields == nil {
		s.Shields = &shields.Service{Graphs: runner}
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/registry-key", s.handleRegistryKey)
	r.Get("/dependencies-of/*", s.handleDependenciesOf)
	r.Get("/shields/{id}/*", s.handleShield)
	r.NotFound(s.handleNotFound)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
