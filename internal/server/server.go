// Package server serves the gene browser: the JSON API, rendered gene map
// SVGs and the HTML pages.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/genemap"
)

//go:embed templates/*.html
var templateFS embed.FS

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server routes HTTP requests to a Service.
type Server struct {
	svc           *Service
	logger        *zap.Logger
	pages         *template.Template
	router        chi.Router
	defaultGenome string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithDefaultGenome sets the genome used by the index page search box.
func WithDefaultGenome(name string) Option {
	return func(s *Server) { s.defaultGenome = name }
}

// New creates a server over svc.
func New(svc *Service, opts ...Option) (*Server, error) {
	s := &Server{
		svc:           svc,
		logger:        zap.NewNop(),
		defaultGenome: "hg38",
	}
	for _, opt := range opts {
		opt(s)
	}

	pages, err := template.New("").Funcs(template.FuncMap{
		"formatNumber": func(n int64) string { return genemap.FormatBigNumber(n) },
		"safeSVG":      func(b []byte) template.HTML { return template.HTML(b) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.pages = pages
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/browse/{genome}/{symbol}", s.handleBrowse)
	r.Get("/random/{genome}", s.handleRandom)
	r.Get("/search/{genome}", s.handleSearch)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transcripts/{genome}/{symbol}/{accession}", s.handleTranscript)
		r.Get("/dynamic_search/{genome}", s.handleDynamicSearch)
		r.Get("/genemap/{genome}/{symbol}/{file}", s.handleGeneMap)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
