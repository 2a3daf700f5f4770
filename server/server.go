// Package server exposes translation and augmentation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/graph"
	"github.com/c360studio/pddls/metrics"
	"github.com/c360studio/pddls/ontology"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 10 << 20

// Options configures a Server.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics enables /metrics and request accounting when set.
	Metrics *metrics.Collector

	// Publisher receives augmentation results when set.
	Publisher *graph.Publisher

	// Ontology is unioned into every augmentation request.
	Ontology *ontology.Graph

	// Encode sets the default tree output of pddl2json.
	Encode document.EncodeOptions

	// Version is reported by the health endpoint.
	Version string

	// RequestTimeout bounds each request. Defaults to 60s.
	RequestTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	opts   Options
	logger *slog.Logger
	router *chi.Mux
}

// New creates a server with its routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	s := &Server{opts: opts, logger: opts.Logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/pddl2json", s.handlePDDLToTree)
		r.Post("/json2pddl", s.handleTreeToPDDL)
		r.Post("/augment", s.handleAugment)
	})

	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.opts.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}
