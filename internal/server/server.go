// Package server implements the CV form web app: upload a template, fill in
// the fields it declares, and download the generated document.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/net/netutil"

	"github.com/tsawler/docfill/internal/config"
)

const shutdownTimeout = 5 * time.Second

// Server serves the form app.
type Server struct {
	cfg *config.Config
	log *charmlog.Logger
}

// New creates a Server.
func New(cfg *config.Config, log *charmlog.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/fields", s.handleFields)
	mux.HandleFunc("POST /api/fill", s.handleFill)

	// Applied in reverse: request id, access log, recovery, body limit, routes.
	var h http.Handler = mux
	h = limitBody(s.cfg.MaxUploadBytes())(h)
	h = recovery(h)
	h = accessLog(h)
	h = requestID(s.log)(h)
	return corsHandler(s.cfg.CORSOrigins).Handler(h)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. At most
// MaxConns connections are accepted at once when MaxConns is positive.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("server started",
		"address", ln.Addr().String(),
		"environment", s.cfg.Environment,
		"max_upload_mb", s.cfg.MaxUploadMB,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}
	s.log.Debug("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}
