// Package httpapi exposes the memo service as a JSON HTTP API.
//
// Routes:
//
//	POST /api/memo                          create a memo (form or JSON body)
//	POST /api/search                        rank memos against a query
//	GET  /api/categories                    distinct categories
//	GET  /api/tags                          distinct tags
//	POST /api/admin/incremental-vectorize   start a background catch-up
//	POST /api/admin/rebuild                 full reconcile, synchronous
//	GET  /api/admin/status                  index status
//	GET  /healthz                           liveness
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// Server serves the memo API.
type Server struct {
	memos driving.MemoService

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server backed by memos.
func NewServer(memos driving.MemoService) (*Server, error) {
	if memos == nil {
		return nil, errors.New("memo service is required")
	}
	return &Server{memos: memos}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/memo", s.handleCreate)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/tags", s.handleTags)

	mux.HandleFunc("POST /api/admin/incremental-vectorize", s.handleIncremental)
	mux.HandleFunc("POST /api/admin/rebuild", s.handleRebuild)
	mux.HandleFunc("GET /api/admin/status", s.handleStatus)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return withMiddleware(mux)
}

// Start listens on addr and serves in the background. An addr with port 0
// picks a free port; Addr reports the one chosen.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Rebuilds embed every memo, so writes get a generous timeout.
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server: %v", err)
		}
	}()

	logger.Info("HTTP API listening on http://%s", listener.Addr())
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("HTTP API stopped")
	return nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Start(addr); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
