// Package pushgateway assembles the dispatch service: routes, middleware,
// and the HTTP server lifecycle.
package pushgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tinywideclouds/go-push-gateway/internal/api"
	"github.com/tinywideclouds/go-push-gateway/pkg/dispatch"
	"github.com/tinywideclouds/go-push-gateway/pushgateway/config"
)

type Wrapper struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// New assembles the service. The verifier and dispatcher are capability
// interfaces so tests can substitute deterministic doubles.
func New(
	cfg *config.Config,
	verifier dispatch.Verifier,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
) (*Wrapper, error) {
	if verifier == nil || dispatcher == nil {
		return nil, fmt.Errorf("pushgateway: verifier and dispatcher are required")
	}

	notifyAPI := api.NewNotifyAPI(dispatcher, logger)

	authMiddleware := api.NewAuthMiddleware(verifier, logger)
	corsMiddleware := api.NewCorsMiddleware(cfg.AllowedOrigins)
	logMiddleware := api.NewLoggingMiddleware(logger)

	mux := http.NewServeMux()

	// Helper for clean route definition: auth applies only to dispatch routes.
	handle := func(pattern string, handlerFunc http.HandlerFunc) {
		mux.Handle(pattern, corsMiddleware(authMiddleware(handlerFunc)))
	}

	handle("POST /send-notification", notifyAPI.SendNotification)
	handle("POST /send-multicast-notification", notifyAPI.SendMulticastNotification)

	// Health is unauthenticated and independent of backend state.
	mux.Handle("GET /health", corsMiddleware(http.HandlerFunc(notifyAPI.Health)))

	// CORS preflight
	mux.Handle("OPTIONS /", corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	handler := logMiddleware(mux)

	return &Wrapper{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: handler,
		logger:  logger,
	}, nil
}

// Handler exposes the assembled route tree, primarily for tests.
func (w *Wrapper) Handler() http.Handler {
	return w.handler
}

// Start serves until the context is cancelled or the listener fails, then
// drains in-flight requests.
func (w *Wrapper) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		w.logger.Info("HTTP server listening", "addr", w.httpServer.Addr)
		if err := w.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return w.Shutdown(context.Background())
	}
}

func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down service components...")
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.httpServer.Shutdown(ctx); err != nil {
		w.logger.Error("HTTP server shutdown failed.", "err", err)
		return err
	}
	w.logger.Info("Service shutdown complete.")
	return nil
}
