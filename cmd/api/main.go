package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/textilehouse-backend/api/controllers"
	"github.com/angelmondragon/textilehouse-backend/api/routes"
	"github.com/angelmondragon/textilehouse-backend/internal/cart"
	"github.com/angelmondragon/textilehouse-backend/internal/cron"
	"github.com/angelmondragon/textilehouse-backend/internal/inquiries"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	"github.com/angelmondragon/textilehouse-backend/pkg/config"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/instance"
	"github.com/angelmondragon/textilehouse-backend/pkg/lock"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/metrics"
	"github.com/angelmondragon/textilehouse-backend/pkg/migrate"
	"github.com/angelmondragon/textilehouse-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
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
	quoteService, err := quotes.NewService(quotes.ServiceParams{
		Products: productService,
		Rounding: rounding,
		Metrics:  pricingMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create quote service", err)
		os.Exit(1)
	}

	var (
		store       cart.Store
		locker      lock.Locker
		redisClient *redis.Client
		redisPinger controllers.Pinger
	)
	switch cfg.Cart.Store {
	case config.CartStoreRedis:
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		store, err = cart.NewRedisStore(redisClient, cfg.Cart.IdleTTL)
		if err != nil {
			logg.Error(ctx, "failed to create redis cart store", err)
			os.Exit(1)
		}
		locker, err = lock.NewRedisLocker(redisClient, func(sessionID string) string {
			return redisClient.LockKey("cart", sessionID)
		}, lock.Options{TTL: cfg.Cart.LockTTL, Wait: cfg.Cart.LockWait})
		if err != nil {
			logg.Error(ctx, "failed to create cart locker", err)
			os.Exit(1)
		}
	default:
		store = cart.NewMemoryStore()
		locker = lock.NewLocalLocker(lock.Options{TTL: cfg.Cart.LockTTL, Wait: cfg.Cart.LockWait})
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

	inquiryService, err := inquiries.NewService(inquiries.NewRepository(dbClient.DB()), quoteService, productService, logg)
	if err != nil {
		logg.Error(ctx, "failed to create inquiry service", err)
		os.Exit(1)
	}

	// In-memory carts only exist in this process, so the sweep runs here
	// instead of in cron-worker.
	if cfg.Cart.Store == config.CartStoreMemory {
		if err := startInProcessSweep(ctx, cfg, logg, cartService, registry); err != nil {
			logg.Error(ctx, "failed to start cart sweep", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"instance":   instance.GetID(),
		"cart_store": cfg.Cart.Store,
		"db_driver":  cfg.DB.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			productService,
			quoteService,
			cartService,
			inquiryService,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
	logg.Info(ctx, "api server stopped")
}

func startInProcessSweep(ctx context.Context, cfg *config.Config, logg *logger.Logger, carts cart.Service, reg prometheus.Registerer) error {
	job, err := cron.NewCartSweepJob(cron.CartSweepJobParams{
		Logger:  logg,
		Carts:   carts,
		IdleTTL: cfg.Cart.IdleTTL,
	})
	if err != nil {
		return err
	}
	registry, err := cron.NewRegistry(job)
	if err != nil {
		return err
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     cron.NewLocalLock(),
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}
	go func() {
		if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "cart sweep stopped unexpectedly", err)
		}
	}()
	return nil
}
