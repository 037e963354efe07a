// README: Entry point; loads config, wires the pricing catalog and service, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"relo/internal/config"
	httptransport "relo/internal/http"
	"relo/internal/infra"
	"relo/internal/logger"
	"relo/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, cleanup, err := buildCatalog(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("pricing catalog init failed", zap.Error(err))
	}
	defer cleanup()

	pricingSvc := pricing.NewService(catalog, cfg.Pricing, lg)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Pricing: pricingSvc,
		Logger:  lg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("http shutdown failed", zap.Error(err))
		}
	}()

	lg.Info("http server listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("catalog", cfg.Pricing.CatalogSource),
		zap.Bool("redis_cache", cfg.Redis.Enabled),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("http server failed", zap.Error(err))
	}
	lg.Info("http server stopped")
}

// buildCatalog picks the reference data source and optionally fronts it with Redis.
func buildCatalog(ctx context.Context, cfg config.Config, lg *zap.Logger) (pricing.Catalog, func(), error) {
	var (
		catalog pricing.Catalog
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Pricing.CatalogSource {
	case config.CatalogPostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		catalog = pricing.NewStore(pool)
	default:
		mem, err := pricing.DefaultCatalog()
		if err != nil {
			return nil, cleanup, err
		}
		catalog = mem
	}

	if cfg.Redis.Enabled {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		catalog = pricing.NewCachedCatalog(catalog, rdb, cfg.Pricing.CatalogTTL, lg)
	}
	return catalog, cleanup, nil
}
