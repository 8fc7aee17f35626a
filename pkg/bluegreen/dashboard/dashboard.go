// Package dashboard serves a small read-mostly API over the rollout state
// and the operation journal, for watching a blue/green switch from outside
// the cluster.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/deploylab/bluegreen/pkg/bluegreen/journal"
	"github.com/deploylab/bluegreen/pkg/bluegreen/rollouts"
)

// DefaultShutdownTimeout bounds graceful shutdown
const DefaultShutdownTimeout = 10 * time.Second

type Config struct {
	Port      string
	Namespace string
	Rollout   string

	// Journal retention. A zero cleanup interval disables the
	// background cleanup loop.
	JournalRetentionDays   int
	JournalCleanupInterval time.Duration
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("Port cannot be empty")
	}
	if c.Namespace == "" {
		return fmt.Errorf("Namespace cannot be empty")
	}
	if c.Rollout == "" {
		return fmt.Errorf("Rollout cannot be empty")
	}
	if c.JournalRetentionDays < 0 {
		return fmt.Errorf("JournalRetentionDays cannot be negative")
	}
	if c.JournalCleanupInterval < 0 {
		return fmt.Errorf("JournalCleanupInterval cannot be negative")
	}
	return nil
}

// Handler holds the dependencies the API endpoints read from.
type Handler struct {
	config   Config
	rollouts *rollouts.Client
	recorder journal.Recorder
	logger   logr.Logger
	registry *prometheus.Registry
}

func NewHandler(cfg Config, rolloutClient *rollouts.Client, recorder journal.Recorder, logger logr.Logger) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Handler{
		config:   cfg,
		rollouts: rolloutClient,
		recorder: recorder,
		logger:   logger,
		registry: registry,
	}, nil
}

// Server runs the dashboard API.
type Server struct {
	handler    *Handler
	logger     logr.Logger
	httpServer *http.Server
}

func NewServer(handler *Handler, logger logr.Logger) *Server {
	s := &Server{
		handler: handler,
		logger:  logger,
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", handler.config.Port),
		Handler: handler.Routes(),
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s.handler.recorder != nil && s.handler.config.JournalCleanupInterval > 0 {
		go s.startJournalCleanup(ctx)
	}

	go func() {
		s.logger.Info("Starting dashboard server",
			"port", s.handler.config.Port,
			"namespace", s.handler.config.Namespace,
			"rollout", s.handler.config.Rollout)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error(err, "HTTP server error")
		}
	}()

	return nil
}

func (s *Server) startJournalCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.handler.config.JournalCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := time.Now().AddDate(0, 0, -s.handler.config.JournalRetentionDays)
			if err := s.handler.recorder.Cleanup(before); err != nil {
				s.logger.Error(err, "failed to cleanup old journal entries")
			}
		}
	}
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
