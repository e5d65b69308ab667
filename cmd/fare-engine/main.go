package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/farewatch/fare-analytics/internal/api"
	"github.com/farewatch/fare-analytics/internal/cache"
	"github.com/farewatch/fare-analytics/internal/config"
	"github.com/farewatch/fare-analytics/internal/metrics"
	"github.com/farewatch/fare-analytics/internal/narrative"
	"github.com/farewatch/fare-analytics/internal/repo"
	"github.com/farewatch/fare-analytics/internal/services"
	"github.com/farewatch/fare-analytics/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting fare-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var cacheProvider cache.Provider = cache.NoopProvider{}
	switch cfg.Cache.Backend {
	case "memory":
		cacheProvider = cache.NewMemoryProvider(cfg.Cache.MaxEntries)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		provider, err := cache.NewRedisProvider(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Username: cfg.Cache.Redis.Username,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		cancel()
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without it", slog.Any("error", err))
		} else {
			cacheProvider = provider
		}
	}
	defer cacheProvider.Close()

	var live services.FareSource
	if cfg.Aviationstack.APIKey != "" {
		live = repo.NewAviationstackClient(
			cfg.Aviationstack.BaseURL,
			cfg.Aviationstack.APIKey,
			cfg.Aviationstack.Timeout,
			cacheProvider,
			cfg.Aviationstack.CacheTTL,
			logger,
		)
	} else {
		logger.Info("no Aviationstack API key configured, live source disabled")
	}

	mockSource := repo.NewMockSource(cfg.Acquisition.MockSeed)

	analyzer := narrative.NewAnalyzer(
		cfg.Narrative.Endpoint,
		cfg.Narrative.APIKey,
		cfg.Narrative.Model,
		cfg.Narrative.Timeout,
		logger,
	)

	analyticsService := services.NewAnalyticsService(logger, live, mockSource, analyzer, services.Options{
		DefaultSource:  cfg.Acquisition.DefaultSource,
		FallbackToMock: cfg.Acquisition.FallbackToMock,
		MaxDaysAhead:   cfg.Acquisition.MaxDaysAhead,
	})

	server := api.NewServer(
		logger,
		analyticsService,
		prometheus.DefaultGatherer,
		cfg.Server.Address,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", slog.Any("error", err))
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("fare-engine stopped")
}
