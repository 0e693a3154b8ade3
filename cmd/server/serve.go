package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repomanage/internal/config"
	"repomanage/internal/handler"
	"repomanage/internal/hub"
	"repomanage/internal/logger"
	"repomanage/internal/metrics"
	"repomanage/internal/repository"
	"repomanage/internal/service"
	"repomanage/internal/watcher"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}
}

// openStore opens the configured backend
func openStore(cfg *config.Config) (*repository.Store, error) {
	return repository.Open(cfg.Storage.Backend, cfg.Storage.Path, repository.Options{
		CacheTTL: cfg.CacheTTL(),
	})
}

func (a *app) serve(cmd *cobra.Command) error {
	cfg := a.cfg
	log := logger.Named("server")
	log.Info("starting repomanage",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.Storage.Path),
		zap.String("config", a.cfgPath),
	)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	// Metrics
	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New()
		if err := m.Register(reg); err != nil {
			return err
		}
		if err := metrics.NewRegionCollector(store).Register(reg); err != nil {
			return err
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Services
	eventBus := service.NewEventBus()
	opts := []service.Option{service.WithMetrics(m)}
	repoSvc := service.NewRepoService(store, eventBus, opts...)
	langSvc := service.NewLanguageService(store, eventBus, opts...)
	storeSvc := service.NewStoreService(store, eventBus, opts...)

	sseHub := hub.New()

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.NewRouter(handler.Routes{
			Repos:          handler.NewRepoHandler(repoSvc),
			Languages:      handler.NewLanguageHandler(langSvc),
			Store:          handler.NewStoreHandler(storeSvc),
			Events:         sseHub,
			Metrics:        m,
			MetricsHandler: metricsHandler,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return sseHub.Run(gctx) })
	g.Go(func() error { return sseHub.Relay(gctx, eventBus) })

	if a.cfgPath != "" {
		w := watcher.New(a.cfgPath, func() { a.reload(cmd, log) })
		g.Go(func() error {
			if err := w.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				// the server keeps running without hot reload
				log.Warn("config watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// reload re-reads the config file and applies the log level. Other settings
// need a restart.
func (a *app) reload(cmd *cobra.Command, log *zap.Logger) {
	next, _, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		log.Warn("config reload rejected", zap.Error(err))
		return
	}
	if next.Log.Level == logger.Level() {
		return
	}
	logger.SetLevel(next.Log.Level)
	log.Info("log level changed", zap.String("level", logger.Level()))
}
