// Package web serves the bot's operational status over HTTP.
package web

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Server exposes /healthz and /status.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	started time.Time
	checks  map[string]HealthCheck

	messagesReceived atomic.Int64
	repliesSent      atomic.Int64
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCheck registers a named dependency health check.
func WithCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// New creates the status server.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		logger:  slog.Default(),
		started: time.Now(),
		checks:  make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web")

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Use(cors.New())
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/status", s.handleStatus)
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("status server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// MessageReceived counts one inbound message.
func (s *Server) MessageReceived() { s.messagesReceived.Add(1) }

// ReplySent counts one delivered reply.
func (s *Server) ReplySent() { s.repliesSent.Add(1) }
