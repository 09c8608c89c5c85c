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

	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/logger"
)

const defaultShutdownTimeout = 30 * time.Second

type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

// GracefulServer runs an Echo server and tears down its dependencies in
// registration order once the server has stopped accepting requests
type GracefulServer struct {
	echo    *echo.Echo
	logger  *logger.ZapLogger
	addr    string
	timeout time.Duration
	steps   []shutdownStep
}

// NewGracefulServer creates a new server with graceful shutdown
func NewGracefulServer(e *echo.Echo, zapLogger *logger.ZapLogger, addr string, timeout time.Duration) *GracefulServer {
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &GracefulServer{
		echo:    e,
		logger:  zapLogger,
		addr:    addr,
		timeout: timeout,
	}
}

// OnShutdown registers a cleanup step. Steps run after the HTTP server stops.
func (s *GracefulServer) OnShutdown(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, shutdownStep{name: name, fn: fn})
}

// Start serves until SIGINT or SIGTERM, then shuts down
func (s *GracefulServer) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", logger.String("address", s.addr))
		if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		s.logger.Error("HTTP server failed", logger.Err(err))
		return errors.Join(fmt.Errorf("http server: %w", err), s.Shutdown())
	}

	return s.Shutdown()
}

// Shutdown stops the HTTP server and runs every registered step, even when
// an earlier one fails
func (s *GracefulServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var errs []error

	s.logger.Info("Shutting down HTTP server...")
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", logger.Err(err))
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	for _, step := range s.steps {
		s.logger.Info("Shutting down component", logger.String("component", step.name))
		if err := step.fn(ctx); err != nil {
			s.logger.Error("Error during component shutdown",
				logger.String("component", step.name),
				logger.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	s.logger.Info("Shutdown completed", logger.Int("components", len(s.steps)))
	return errors.Join(errs...)
}
