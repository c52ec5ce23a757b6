// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/favbot/internal/config"
	"github.com/rs/zerolog"
)

// Task is a background job owned by the App. It must return when ctx ends.
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

// App owns the long-lived runtime (config watcher, reload wiring, background
// tasks) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.Holder
	reloadSignal os.Signal
	onReload     []func(config.AppConfig)
	tasks        []namedTask
}

// NewApp creates a new App orchestrator. cfgHolder may be nil.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		reloadSignal: syscall.SIGHUP,
	}
}

// OnReload registers fn to run with every successfully reloaded config.
func (a *App) OnReload(fn func(config.AppConfig)) {
	a.onReload = append(a.onReload, fn)
}

// Go adds a background task. A task error is logged and does not stop the daemon.
func (a *App) Go(name string, task Task) {
	a.tasks = append(a.tasks, namedTask{name: name, run: task})
}

// Run starts all owned subsystems and blocks until ctx is cancelled or the
// servers fail.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
		a.manager.RegisterShutdownHook("config_watcher", func(context.Context) error {
			a.cfgHolder.Stop()
			return nil
		})
	}

	if a.cfgHolder != nil && len(a.onReload) > 0 {
		applyCh := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(applyCh)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					for _, fn := range a.onReload {
						fn(cfg)
					}
				}
			}
		})
	}

	if a.cfgHolder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.cfgHolder.Reload(ctx); err != nil {
						a.logger.Warn().
							Err(err).
							Str("event", "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	for _, t := range a.tasks {
		g.Go(func() error {
			if err := t.run(ctx); err != nil {
				a.logger.Warn().
					Err(err).
					Str("task", t.name).
					Str("event", "task.failed").
					Msg("background task failed")
			}
			return nil
		})
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	return g.Wait()
}
