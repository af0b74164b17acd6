// Package daemon runs the HTTP server and shuts it down gracefully.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/teamsync/teamsync/internal/config"
)

// Server represents the TeamSync HTTP daemon
type Server struct {
	http            *http.Server
	listener        net.Listener
	logger          *slog.Logger
	shutdownTimeout time.Duration
	background      []func(ctx context.Context) error
	shutdownOnce    sync.Once
	shutdownErr     error
}

// NewServer binds cfg.Addr and prepares handler for serving
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	return &Server{
		http: &http.Server{
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		listener:        listener,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Addr returns the bound address, useful when listening on port 0
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Go registers a background loop (such as an event subscriber) that runs
// for the lifetime of the server. Its error is logged, not fatal.
func (s *Server) Go(fn func(ctx context.Context) error) {
	s.background = append(s.background, fn)
}

// Start serves until ctx is cancelled or the listener fails, then shuts
// down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("server starting", "addr", s.Addr())

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, fn := range s.background {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(bgCtx); err != nil {
				s.logger.Warn("background loop stopped", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(s.listener)
	}()

	var err error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			s.logger.Error("server error", "error", err)
		}
	}

	cancel()
	if shutdownErr := s.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	wg.Wait()
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests up
// to the configured timeout
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.shutdownErr = fmt.Errorf("graceful shutdown failed: %w", err)
			_ = s.http.Close()
		}
		s.logger.Info("server stopped")
	})
	return s.shutdownErr
}
