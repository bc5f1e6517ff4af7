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

	"github.com/prasetya/ridelink/internal/pkg/logger"
)

// GracefulServer wraps an echo instance with signal-driven shutdown.
type GracefulServer struct {
	echo     *echo.Echo
	logger   *logger.ZapLogger
	port     int
	cleanups []func(context.Context) error
}

// NewGracefulServer creates a server listening on the given port
func NewGracefulServer(e *echo.Echo, log *logger.ZapLogger, port int) *GracefulServer {
	return &GracefulServer{echo: e, logger: log, port: port}
}

// OnShutdown registers a cleanup function to run after the HTTP listener
// has stopped. Cleanups run in registration order; a failing cleanup does
// not stop the rest.
func (s *GracefulServer) OnShutdown(fn func(context.Context) error) {
	s.cleanups = append(s.cleanups, fn)
}

// Start serves HTTP until SIGINT or SIGTERM arrives, then shuts down.
func (s *GracefulServer) Start() error {
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		s.logger.Info("starting HTTP server", logger.String("address", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("server failed", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	s.logger.Info("received shutdown signal", logger.String("signal", sig.String()))

	return s.Shutdown()
}

// Shutdown stops the listener then runs registered cleanups.
func (s *GracefulServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var firstErr error
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shut down", logger.Err(err))
		firstErr = err
	}

	for _, fn := range s.cleanups {
		if err := fn(ctx); err != nil {
			s.logger.Error("component shutdown failed", logger.Err(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.logger.Info("shutdown complete")
	return firstErr
}
