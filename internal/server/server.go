// Package server implements the shotgrid HTTP API.
//
// The API serves edits from a [store.Store] and lays them out with a
// [pipeline.Runner]:
//
//	GET    /health
//	GET    /edits
//	GET    /edits/{id}
//	PUT    /edits/{id}
//	GET    /edits/{id}/layout
//	GET    /edits/{id}/hit?x=&y=
//	GET    /edits/{id}/render.{format}
//	GET    /edits/{id}/export.csv
//	POST   /edits/{id}/views
//	GET    /views/{vid}/layout
//	POST   /views/{vid}/select?x=&y=
//	GET    /views/{vid}/render.{format}
//	DELETE /views/{vid}
//
// Layout endpoints accept the host geometry as query parameters: width,
// height, left, right, header, overlap, group_by, unassigned. Views keep a
// live layout per client, so polling a view only solves again when the
// geometry or the edit changed.
//
// Errors are JSON objects {"error": "...", "code": "..."} with the status
// derived from the error code.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shotgrid/pkg/observability"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/session"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// Config wires the server's dependencies.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Store    store.Store
	Runner   *pipeline.Runner
	Sessions session.Store
	Logger   *log.Logger

	// Defaults are merged into every request's pipeline options: solver
	// parameters, render settings and the thumbnail folder.
	Defaults pipeline.Options

	// Recorder, when set, has its counts reported on /health.
	Recorder *observability.Recorder

	StartTime time.Time
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	cfg        Config
}

// New creates a server. Store and Runner are required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(cfg),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		cfg: cfg,
	}
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully. Expired
// view sessions are swept every minute.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case err := <-errCh:
			return err
		case <-sweep.C:
			if n, _ := s.cfg.Sessions.Cleanup(ctx); n > 0 {
				s.cfg.Logger.Debug("expired view sessions removed", "count", n)
			}
		case <-ctx.Done():
			s.cfg.Logger.Info("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
			defer cancel()
			return s.httpServer.Shutdown(shutdownCtx)
		}
	}
}
