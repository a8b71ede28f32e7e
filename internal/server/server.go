// Package server exposes the catalog and install operations as a local JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
)

// Server serves the skills API and, optionally, a static web UI.
type Server struct {
	cfg       *config.Config
	installer *install.Installer
	resolver  *install.Resolver
	handler   http.Handler
}

// New creates a server for cfg.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		installer: install.NewInstaller(cfg.RepoPath(), cfg.GlobalPath()),
		resolver:  install.NewResolver(cfg.GlobalPath()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/skills", s.handleSkills)
	mux.HandleFunc("GET /api/skills/{name}", s.handleSkillDetail)
	mux.HandleFunc("GET /api/installed", s.handleInstalled)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("POST /api/download", s.handleDownload)
	mux.HandleFunc("/api/", s.handleAPINotFound)

	if dir := cfg.Server.StaticDir; dir != "" {
		mux.Handle("/", newStaticFileServer(os.DirFS(dir)))
	}

	s.handler = withRequestLogging(mux)
	return s
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	logging.Info("server started",
		logging.Path(s.cfg.RepoPath()),
		"addr", listener.Addr().String(),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logging.Info("server stopped")
	return nil
}
