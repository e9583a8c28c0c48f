package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/doudou-app/doudou/pkg/health"
)

// Server runs the fake backend over HTTP.
type Server struct {
	logger     *slog.Logger
	store      *Store
	httpServer *http.Server
}

// NewServer creates a server on addr over store. When seed is set the demo
// data set is loaded before serving.
func NewServer(addr string, store *Store, seed bool, logger *slog.Logger) *Server {
	if seed {
		n := store.Seed()
		logger.Info("fake backend seeded", slog.Int("locations", n))
	}

	registry := health.NewRegistry(health.DefaultTimeout)
	registry.Register("store", store.Check)

	return &Server{
		logger: logger,
		store:  store,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(store, registry, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting fake backend", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server with a 10-second deadline.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown fake backend: %w", err)
	}
	s.logger.Info("fake backend stopped")
	return nil
}
