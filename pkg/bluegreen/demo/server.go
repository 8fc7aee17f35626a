// Package demo implements the sample application the rollout ships: one
// HTTP service built twice, blue and green, differing only in the response
// string served on /.
package demo

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
)

// Fixed responses for the two builds of the demo app.
const (
	BlueMessage  = "Hello from the BLUE deployment!"
	GreenMessage = "Hello from the GREEN deployment!"
)

// DefaultShutdownTimeout bounds graceful shutdown
const DefaultShutdownTimeout = 10 * time.Second

type Config struct {
	Message string
	Port    string
}

func (c *Config) Validate() error {
	if c.Message == "" {
		return fmt.Errorf("Message cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("Port cannot be empty")
	}
	return nil
}

type Server struct {
	config     Config
	logger     logr.Logger
	metrics    *metrics
	httpServer *http.Server
}

func NewServer(cfg Config, logger logr.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: newMetrics(),
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: s.Routes(),
	}
	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	go func() {
		s.logger.Info("Starting demo server", "port", s.config.Port, "message", s.config.Message)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(err, "HTTP server error")
		}
	}()

	return nil
}

func (s *Server) WaitForShutdown(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		s.logger.Info("Shutting down...")
		return s.Shutdown(context.Background())
	case <-ctx.Done():
		s.logger.Info("Shutting down due to context cancellation...")
		return s.Shutdown(context.Background())
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("Shutdown complete")
	return nil
}
