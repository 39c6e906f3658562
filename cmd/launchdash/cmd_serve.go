// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/launchdash/pkg/logging"
	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/config"
	"github.com/AleutianAI/launchdash/services/dashboard/dataset"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/handlers"
	"github.com/AleutianAI/launchdash/services/dashboard/layout"
	"github.com/AleutianAI/launchdash/services/dashboard/middleware"
	"github.com/AleutianAI/launchdash/services/dashboard/observability"
	"github.com/AleutianAI/launchdash/services/dashboard/routes"
	"github.com/AleutianAI/launchdash/services/dashboard/telemetry"
)

// loadConfig reads --config and applies the flag overrides, which take
// precedence over both the file and the environment.
func loadConfig() (config.DashboardConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.DashboardConfig{}, err
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format := logging.FormatAuto
	if cfg.JSON != nil {
		format = logging.FormatText
		if *cfg.JSON {
			format = logging.FormatJSON
		}
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Dir,
		Service: "launchdash",
		Format:  format,
	}), nil
}

// loadDataset resolves the configured location and reads the CSV.
func loadDataset(ctx context.Context, cfg config.DataConfig) (*datatypes.Dataset, error) {
	src, err := dataset.ParseSource(cfg.Path)
	if err != nil {
		return nil, err
	}
	if gcs, ok := src.(dataset.GCSSource); ok {
		gcs.CredentialsFile = cfg.CredentialsFile
		src = gcs
	}
	return dataset.Load(ctx, src)
}

// app is a fully wired dashboard server.
type app struct {
	cfg      config.DashboardConfig
	logger   *logging.Logger
	router   *gin.Engine
	server   *http.Server
	shutdown func(context.Context) error
}

// newApp wires telemetry, loads the dataset, and builds metrics, callbacks,
// and routes. A dataset that cannot be loaded is an error; nothing is
// served without one.
func newApp(ctx context.Context, cfg config.DashboardConfig, logger *logging.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	telCfg := cfg.Telemetry
	telCfg.Registerer = reg
	shutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	ds, err := loadDataset(ctx, cfg.Data)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	metrics := observability.NewMetrics(reg)
	metrics.SetDataset(ds.Len(), len(ds.Sites()))

	opts := layout.Options{Bounds: cfg.Slider.Bounds, DefaultRange: cfg.Slider.Default}
	registry := callbacks.NewRegistry(callbacks.WithObserver(metrics))
	if err := callbacks.Bind(registry, ds, opts.Bounds); err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("bind callbacks: %w", err)
	}

	limit := cfg.Server.RateLimit
	limiter := middleware.NewRateLimiter(limit.RequestsPerSecond, limit.Burst, metrics.RecordRateLimited)
	router := routes.NewRouter(routes.Dependencies{
		ServiceName:    telCfg.ServiceName,
		Dashboard:      handlers.New(ds, registry, opts, handlers.WithFrameLimiter(limiter)),
		Logger:         logger,
		Metrics:        metrics,
		Limiter:        limiter,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		router: router,
		server: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		shutdown: shutdown,
	}, nil
}

// run serves on ln until ctx is cancelled or the server fails, then shuts
// the server down within the configured timeout and flushes telemetry.
func (a *app) run(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Dashboard listening", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down the dashboard server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(a.server.Shutdown(shutdownCtx), a.shutdown(shutdownCtx))
	})

	return g.Wait()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetDefault()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		_ = a.shutdown(context.Background())
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}
	return a.run(ctx, ln)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := "launchdash.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}
