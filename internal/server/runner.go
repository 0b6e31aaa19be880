// Package server runs the daemon's long-lived components together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vmunix/carbon/internal/handlers"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds how long in-flight HTTP requests may run
// after shutdown begins.
const DefaultShutdownTimeout = 10 * time.Second

// Service is a component that runs until its context is done.
type Service interface {
	Run(ctx context.Context) error
}

// Config for the runner.
type Config struct {
	Addr            string // empty disables the HTTP server
	ShutdownTimeout time.Duration
}

// Runner manages the scheduler, event handlers and HTTP server.
type Runner struct {
	config   Config
	queue    Service
	handlers []handlers.Handler
	http     http.Handler
	logger   *slog.Logger
}

// NewRunner creates a new runner. httpHandler may be nil when Addr is empty.
func NewRunner(cfg Config, queue Service, hs []handlers.Handler, httpHandler http.Handler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Runner{
		config:   cfg,
		queue:    queue,
		handlers: hs,
		http:     httpHandler,
		logger:   logger,
	}
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	var ln net.Listener
	if r.config.Addr != "" && r.http != nil {
		var err error
		ln, err = net.Listen("tcp", r.config.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", r.config.Addr, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.queue.Run(ctx); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
		return nil
	})

	for _, h := range r.handlers {
		g.Go(func() error {
			r.logger.Debug("handler starting", "handler", h.Name())
			if err := h.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("handler %s: %w", h.Name(), err)
			}
			return nil
		})
	}

	if ln != nil {
		srv := &http.Server{
			Handler:           r.http,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			r.logger.Info("http server listening", "addr", ln.Addr().String())
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				r.logger.Error("http shutdown error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
