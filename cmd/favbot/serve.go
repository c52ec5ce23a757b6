// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ManuGH/favbot/internal/bot"
	"github.com/ManuGH/favbot/internal/config"
	"github.com/ManuGH/favbot/internal/daemon"
	"github.com/ManuGH/favbot/internal/favorites"
	"github.com/ManuGH/favbot/internal/gateway"
	"github.com/ManuGH/favbot/internal/health"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/platform/httpx"
	"github.com/ManuGH/favbot/internal/plugin"
	"github.com/ManuGH/favbot/internal/telemetry"
	"github.com/ManuGH/favbot/internal/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const serviceName = "favbot"

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway for a chat host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg
	logger := xglog.WithComponent("daemon")

	if err := health.PerformStartupChecks(ctx, health.StartupConfig{DataDir: cfg.DataDir, ServerURL: cfg.ServerURL}); err != nil {
		return err
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		PluginName:     plugin.Name,
		PluginVersion:  plugin.Version,
		Locations:      favorites.DefaultCatalog().Len(),
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	holder := config.NewHolder(cfg, opts.loader)
	svc := newServices(cfg, holder.ServerURL)

	outbox := gateway.NewOutbox(cfg.API.ReplyQueueSize)
	var sender bot.Sender = outbox
	if cfg.API.CallbackURL != "" {
		webhook := gateway.NewWebhookSender(cfg.API.CallbackURL, httpx.NewClient(httpx.Options{Traced: cfg.Telemetry.Enabled}))
		sender = gateway.MultiSender{outbox, webhook}
	}
	p, dispatcher := svc.wire(sender, cfg.SelectionTimeout)

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewDataDirChecker(cfg.DataDir))
	hm.RegisterChecker(health.NewSyncChecker(svc.sync.last))

	var apiMetrics, metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddr == "" {
			apiMetrics = promhttp.Handler()
		} else {
			metricsHandler = promhttp.Handler()
		}
	}
	stack := gateway.StackConfig{
		EnableMetrics: cfg.Metrics.Enabled,
		EnableLogging: true,
		RateLimitRPM:  cfg.API.RateLimitRPM,
	}
	if tp.Enabled() {
		stack.TracingService = serviceName
	}
	router := gateway.NewRouter(gateway.Options{
		Dispatcher: dispatcher,
		Outbox:     outbox,
		Health:     hm,
		Metrics:    apiMetrics,
		Stack:      stack,
	})

	mgr, err := daemon.NewManager(daemon.DefaultServerConfig(cfg.API.ListenAddr), daemon.Deps{
		Logger:         logger,
		APIHandler:     router,
		MetricsHandler: metricsHandler,
		MetricsAddr:    cfg.Metrics.ListenAddr,
	})
	if err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return err
	}

	// Hooks run LIFO: drain commands, announce unload, then flush traces.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("plugin", func(ctx context.Context) error {
		p.Terminate(ctx)
		return nil
	})
	mgr.RegisterShutdownHook("dispatcher", dispatcher.Close)

	app := daemon.NewApp(logger, mgr, holder)
	app.OnReload(func(c config.AppConfig) {
		p.SetSelectionTimeout(c.SelectionTimeout)
		if !xglog.SetLevel(c.LogLevel) {
			logger.Warn().Str("level", c.LogLevel).Msg("ignoring unknown log level from reload")
		}
	})
	app.Go("initial_sync", svc.initialSync)

	p.Start(ctx, svc.remote.ServerURL())
	return app.Run(ctx)
}
