package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatbot/internal/api"
	"chatbot/internal/config"
	"chatbot/internal/middleware"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the http.Server to provide graceful shutdown.
type Server struct {
	httpServer *http.Server
	log        *logrus.Logger
}

// New creates a new Server instance.
func New(cfg *config.Config, chatAPI *api.ChatAPI, log *logrus.Logger) *Server {
	var handler http.Handler = chatAPI.Routes()
	handler = middleware.RateLimit(handler, cfg.Server.RequestsPerSecond, cfg.Server.Burst, log)
	handler = middleware.Logger(handler, log)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the server and waits for a shutdown signal. It returns early
// with an error if the listener fails.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on %s: %w", s.httpServer.Addr, err)
		}
	}()
	s.log.Infof("Server is ready to handle requests at %s", s.httpServer.Addr)

	// Wait for a shutdown signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case err := <-errCh:
		return err
	case <-c:
	}

	s.Shutdown()
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() {
	s.log.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Errorf("Server shutdown failed: %v", err)
		return
	}

	s.log.Info("Server gracefully stopped")
}
