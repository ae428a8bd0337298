package fakebank

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server runs the fake backend until its context ends.
type Server struct {
	server *http.Server
	logger *logger.Logger
}

func NewServer(handler *Handler, addr string, logger *logger.Logger) *Server {
	logger.Info().Str("address", addr).Msg("creating new server...")
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler.Init(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run listens on the configured address and blocks until ctx ends, then
// shuts the server down gracefully. Open streams are canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("Launching HTTP server")
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
