// README: Seed tool; applies migrations and upserts the default pricing reference data.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"relo/internal/config"
	"relo/internal/infra"
	"relo/internal/logger"
	"relo/internal/modules/pricing"
	"relo/migrations"
)

func main() {
	skipMigrate := flag.Bool("skip-migrate", false, "only upsert reference data")
	flushCache := flag.Bool("flush-cache", true, "drop cached catalog entries when Redis is enabled")
	flag.Parse()

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

	pool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	if !*skipMigrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			lg.Fatal("migration failed", zap.Error(err))
		}
		lg.Info("migrations applied")
	}

	bands := pricing.DefaultDistanceBands()
	rates, err := pricing.GenerateRates(pricing.DefaultRateMatrix(), bands)
	if err != nil {
		lg.Fatal("rate generation failed", zap.Error(err))
	}
	classes := pricing.DefaultVehicleClasses()
	extras := pricing.DefaultExtraServices()

	store := pricing.NewStore(pool)
	if err := store.SeedReferenceData(ctx, classes, bands, extras, rates); err != nil {
		lg.Fatal("seed failed", zap.Error(err))
	}
	lg.Info("reference data seeded",
		zap.Int("vehicle_classes", len(classes)),
		zap.Int("distance_bands", len(bands)),
		zap.Int("extra_services", len(extras)),
		zap.Int("rates", len(rates)),
	)

	if cfg.Redis.Enabled && *flushCache {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Warn("redis unavailable; cached catalog not flushed", zap.Error(err))
			return
		}
		defer rdb.Close()
		cached := pricing.NewCachedCatalog(store, rdb, cfg.Pricing.CatalogTTL, lg)
		if err := cached.Invalidate(ctx); err != nil {
			lg.Warn("cache flush failed", zap.Error(err))
			return
		}
		lg.Info("cached catalog flushed")
	}
}
