package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/Raznime/internal/cache"
	"github.com/Belphemur/Raznime/internal/catalog"
	"github.com/Belphemur/Raznime/internal/config"
	"github.com/Belphemur/Raznime/internal/gateway"
	"github.com/Belphemur/Raznime/internal/metrics"
	"github.com/Belphemur/Raznime/internal/preference"
	"github.com/Belphemur/Raznime/internal/web"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.Server.Address = address
	}

	logger.Info().
		Str("consumet_api_base_url", cfg.ConsumetAPIBaseURL).
		Str("public_base_url", cfg.PublicBaseURL).
		Str("cache_provider", cfg.Cache.Provider).
		Str("preference_backend", cfg.Preferences.Backend).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	upstreamCache, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           config.ParseDuration("cache.ttl", cfg.Cache.TTL, 24*time.Hour),
		Logger:        cache.NewZerologLogger(logger),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "upstream",
	})
	if err != nil {
		return fmt.Errorf("create %s cache: %w", cfg.Cache.Provider, err)
	}
	defer func() {
		if err := upstreamCache.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close cache")
		}
	}()

	prefs, err := preference.NewBackend(cfg)
	if err != nil {
		return fmt.Errorf("open preference backend: %w", err)
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close preference backend")
		}
	}()

	svc := catalog.New(gateway.New(cfg, upstreamCache), upstreamCache)
	site, err := web.NewServer(cfg, svc, prefs)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	httpServer := web.NewHTTPServer(cfg, site.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", httpServer.Addr).Msg("Starting HTTP server")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
