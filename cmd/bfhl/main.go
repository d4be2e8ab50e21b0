package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/filter"
	"github.com/af-corp/bfhl-service/internal/filter/injection"
	"github.com/af-corp/bfhl-service/internal/filter/policy"
	"github.com/af-corp/bfhl-service/internal/filter/secrets"
	"github.com/af-corp/bfhl-service/internal/gateway"
	"github.com/af-corp/bfhl-service/internal/health"
	"github.com/af-corp/bfhl-service/internal/router"
	"github.com/af-corp/bfhl-service/internal/telemetry"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.Telemetry.LogLevel, cfg.Telemetry.LogFormat)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		"file", *configPath,
		"port", cfg.Server.Port,
		"delegate", cfg.Delegate.Active,
		"policy_enabled", cfg.Filter.Policy.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("bfhl stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	// Delegate for the AI operation
	providerRegistry := router.BuildFromConfig(cfg.Delegate)
	delegate, err := router.NewDelegate(providerRegistry, cfg.Delegate.Active, metrics)
	if err != nil {
		return fmt.Errorf("build delegate: %w", err)
	}
	if p, _ := cfg.ActiveProvider(); p.APIKey == "" {
		logger.Warn("delegate has no API key; AI requests will fail", "provider", cfg.Delegate.Active)
	}

	// Filter chain
	filterCfg := cfg.Filter
	evaluator := policy.NewEvaluator(func() config.PolicyFilterConfig { return filterCfg.Policy }, logger)
	if filterCfg.Policy.Enabled {
		if err := evaluator.Load(ctx); err != nil {
			return fmt.Errorf("load policies: %w", err)
		}
	}
	chain := filter.NewChain(
		secrets.NewScanner(func() config.SecretsFilterConfig { return filterCfg.Secrets }),
		injection.NewScanner(func() config.InjectionFilterConfig { return filterCfg.Injection }),
		evaluator,
	)

	handler := gateway.NewHandler(gateway.Options{
		OfficialEmail: cfg.Service.OfficialEmail,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		Dispatcher:    gateway.NewDispatcher(delegate),
		FilterChain:   chain,
		Metrics:       metrics,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(handler, cfg.Server.CORS),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var healthSrv *health.Server
	if cfg.Telemetry.GRPCHealthPort > 0 {
		healthSrv = health.NewServer(logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("bfhl starting", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Telemetry.MetricsPort > 0 {
		metricsSrv := &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.MetricsPort),
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		}
		g.Go(func() error {
			logger.Info("metrics server starting", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return metricsSrv.Close()
		})
	}

	if healthSrv != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Telemetry.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("listen grpc health: %w", err)
		}
		g.Go(func() error { return healthSrv.Serve(lis) })
		healthSrv.SetServing(true)
	}

	if filterCfg.Policy.Enabled && filterCfg.Policy.Watch {
		watcher := policy.NewWatcher(filterCfg.Policy.BundlePath, evaluator, logger, metrics.RecordPolicyReload)
		g.Go(func() error { return watcher.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		if healthSrv != nil {
			healthSrv.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
