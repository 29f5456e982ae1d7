// Package server provides the HTTP server lifecycle management for fixdesk.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fixdesk/fixdesk/internal/api"
	"github.com/fixdesk/fixdesk/internal/handoff"
	"github.com/fixdesk/fixdesk/internal/live"
	"github.com/fixdesk/fixdesk/internal/store"
)

const (
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = "localhost:7480"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Options configures a Server. Handoff defaults to an in-process store and
// Logger to slog.Default().
type Options struct {
	Address string
	Manager *store.Manager
	Handoff handoff.Store
	Logger  *slog.Logger
}

// Server manages the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	manager    *store.Manager
	hub        *live.Hub
	handoffs   handoff.Store
	logger     *slog.Logger
	listener   net.Listener
	mu         sync.Mutex
	started    bool
}

// New creates a new Server instance.
func New(opts Options) *Server {
	addr := opts.Address
	if addr == "" {
		addr = DefaultAddress
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handoffs := opts.Handoff
	if handoffs == nil {
		handoffs = handoff.NewMemoryStore(handoff.DefaultTTL)
	}
	hub := live.NewHub(logger)

	router := api.NewRouter(api.Options{
		Manager: opts.Manager,
		Hub:     hub,
		Handoff: handoffs,
		Logger:  logger,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		manager:  opts.Manager,
		hub:      hub,
		handoffs: handoffs,
		logger:   logger.With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Create listener first so we know the actual address (for port 0 case)
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.listener = ln
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", ln.Addr().String())

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server. Live subscribers are
// disconnected first since hijacked connections are not tracked by
// http.Server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("shutting down server")

	s.hub.Close()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if err := s.handoffs.Close(); err != nil {
		s.logger.Warn("error closing hand-off store", "error", err)
	}
	if err := s.manager.Close(); err != nil {
		s.logger.Warn("error closing database manager", "error", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Hub returns the live event hub.
func (s *Server) Hub() *live.Hub {
	return s.hub
}

// ListenAndServe starts the server and shuts it down gracefully on SIGINT
// or SIGTERM.
func (s *Server) ListenAndServe() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		s.logger.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}
