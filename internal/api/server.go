package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/flowglad/pr-relay/internal/api/handler"
	"github.com/flowglad/pr-relay/internal/api/middleware"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"net"
	"net/http"
	"time"
)

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type HTTPServer struct {
	server *http.Server
	config *ServerConfig
	logger *logger.Logger
}

func NewHTTPServer(config *ServerConfig,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
	logger *logger.Logger) *HTTPServer {

	router := NewRouter(config.RequestTimeout, webhookHandler, healthHandler, logger)

	server := &http.Server{
		Addr:         net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &HTTPServer{
		server: server,
		config: config,
		logger: logger.Component("http"),
	}
}

// Start binds the listener synchronously so a busy port fails startup, then
// serves in the background.
func (s *HTTPServer) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}

	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("http server shutdown failed", "error", err)
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}

func NewRouter(
	requestTimeout time.Duration,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
	logger *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger.Component("http")))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Security())
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/", healthHandler.Liveness)
	r.Get("/health", healthHandler.Health)

	r.With(middleware.BodyLimit(middleware.MaxBodyBytes)).
		Post("/github-webhook", webhookHandler.HandleWebhook)

	return r
}
