// Package server exposes the scanned workspace over HTTP for browser
// viewing: package listings, the dependency graph, composed scenes,
// and rendered SVG.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/colcontools/wsman/pkg/cache"
	"github.com/colcontools/wsman/pkg/history"
	"github.com/colcontools/wsman/pkg/workspace"
)

// Options configure the HTTP server.
type Options struct {
	Addr          string
	WorkspaceRoot string
	Theme         string

	// Cache backs package size accounting. Optional.
	Cache cache.Cache

	// History serves the build history endpoint. Optional; the endpoint
	// returns 404 when absent.
	History history.Store
}

// Server serves workspace data over HTTP.
type Server struct {
	opts   Options
	logger *log.Logger
	sizer  *workspace.Sizer
}

// New creates a server. A nil logger falls back to the default logger.
func New(opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	return &Server{
		opts:   opts,
		logger: logger,
		sizer:  workspace.NewSizer(opts.Cache, 0),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/packages", s.handlePackages)
		r.Get("/graph", s.handleGraph)
		r.Get("/scene", s.handleScene)
		r.Get("/history", s.handleHistory)
	})
	r.Get("/graph.svg", s.handleSVG)

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
