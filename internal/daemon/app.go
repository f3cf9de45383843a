// SPDX-License-Identifier: MIT

// Package daemon owns the long-lived runtime lifecycle of the config
// service: HTTP server, config file watcher and signal-driven reloads.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sidevit/trainconf/internal/config"
)

// App orchestrates the watchers, reload wiring and the admin HTTP server.
type App struct {
	logger       zerolog.Logger
	cfgHolder    *config.ConfigHolder
	server       *http.Server
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, cfgHolder *config.ConfigHolder, server *http.Server) *App {
	return &App{
		logger:       logger,
		cfgHolder:    cfgHolder,
		server:       server,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run blocks until the context is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup should not fail if watcher cannot be started.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	// SIGHUP trigger for manual reload.
	if a.cfgHolder != nil && a.reloadSignal != nil {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, a.reloadSignal)

		g.Go(func() error {
			defer signal.Stop(sigCh)
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-sigCh:
					a.logger.Info().Str("event", "config.sighup").Msg("reload signal received")
					if err := a.cfgHolder.Reload(ctx); err != nil {
						a.logger.Error().Err(err).Str("event", "config.sighup_reload_failed").Msg("signal-triggered reload failed")
					}
				}
			}
		})
	}

	// HTTP server lifecycle.
	g.Go(func() error {
		a.logger.Info().
			Str("event", "daemon.listening").
			Str("addr", a.server.Addr).
			Msg("admin API listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown on context cancellation.
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		a.logger.Info().Str("event", "daemon.shutdown").Msg("shutting down")
		if a.cfgHolder != nil {
			a.cfgHolder.Stop()
		}
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
