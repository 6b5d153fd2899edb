package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/textilehouse-backend/internal/cart"
	"github.com/angelmondragon/textilehouse-backend/internal/cron"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/config"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/instance"
	"github.com/angelmondragon/textilehouse-backend/pkg/lock"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/metrics"
	"github.com/angelmondragon/textilehouse-backend/pkg/redis"
)

const (
	cycleLockName = "cron-worker"
	cycleLockTTL  = 10 * time.Minute
	metricsAddr   = ":9091"
)

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	jobName := flag.String("job", "", "with -once, run only this job")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.Cart.Store != config.CartStoreRedis {
		// memory carts live inside the api process, which sweeps them itself
		logg.Error(context.Background(), "cron worker requires the redis cart store", errors.New("cart store is "+cfg.Cart.Store))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	rounding, err := pricing.ParseRounding(cfg.Pricing.Rounding)
	if err != nil {
		logg.Error(ctx, "invalid pricing rounding", err)
		os.Exit(1)
	}
	productService, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}
	store, err := cart.NewRedisStore(redisClient, cfg.Cart.IdleTTL)
	if err != nil {
		logg.Error(ctx, "failed to create redis cart store", err)
		os.Exit(1)
	}
	locker, err := lock.NewRedisLocker(redisClient, func(sessionID string) string {
		return redisClient.LockKey("cart", sessionID)
	}, lock.Options{TTL: cfg.Cart.LockTTL, Wait: cfg.Cart.LockWait})
	if err != nil {
		logg.Error(ctx, "failed to create cart locker", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:      store,
		Locker:     locker,
		Products:   productService,
		Rounding:   rounding,
		Metrics:    pricingMetrics,
		Logger:     logg,
		SweepBatch: cfg.Cart.SweepBatch,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewCartSweepJob(cron.CartSweepJobParams{
		Logger:  logg,
		Carts:   cartService,
		IdleTTL: cfg.Cart.IdleTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart sweep job", err)
		os.Exit(1)
	}

	cycleLock, err := lock.NewMutex(redisClient, redisClient.CronLockKey(cycleLockName), cycleLockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}

	jobs, err := cron.NewRegistry(sweepJob)
	if err != nil {
		logg.Error(ctx, "failed to register cron jobs", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     cycleLock,
		Metrics:  metrics.NewCronJobMetrics(registry),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	if *once {
		var names []string
		if *jobName != "" {
			names = append(names, *jobName)
		}
		if err := service.RunOnce(ctx, names...); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "cron cycle complete")
		return
	}

	metricsServer := &http.Server{
		Addr:    metricsAddr,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	defer func() {
		_ = metricsServer.Shutdown(context.Background())
	}()

	logg.Info(logg.WithField(ctx, "interval", cfg.Cron.Interval.String()), "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
