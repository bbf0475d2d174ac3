package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/musicai/internal/server"
	"github.com/desertthunder/musicai/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the playlist generation JSON API and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil || r.acquirer == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'musicai setup'", shared.ErrServiceUnavailable)
	}

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	if err := r.guard.Initialize(ctx); err != nil {
		r.logger.Warn("service credential not yet available", "err", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.NewPlaylistHandler(r.engine, r.acquirer, r.catalog, r.logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("listening on %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}
