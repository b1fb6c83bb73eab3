package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flamoure/flamoure-backend/api/routes"
	"github.com/flamoure/flamoure-backend/internal/auth"
	"github.com/flamoure/flamoure-backend/internal/cart"
	"github.com/flamoure/flamoure-backend/internal/checkout"
	"github.com/flamoure/flamoure-backend/internal/editor"
	"github.com/flamoure/flamoure-backend/internal/orders"
	"github.com/flamoure/flamoure-backend/internal/pricing"
	products "github.com/flamoure/flamoure-backend/internal/products"
	"github.com/flamoure/flamoure-backend/internal/settings"
	"github.com/flamoure/flamoure-backend/internal/uploads"
	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	"github.com/flamoure/flamoure-backend/pkg/metrics"
	"github.com/flamoure/flamoure-backend/pkg/migrate"
	"github.com/flamoure/flamoure-backend/pkg/outbox"
	"github.com/flamoure/flamoure-backend/pkg/redis"
	"github.com/flamoure/flamoure-backend/pkg/storage/gcs"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs client", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	sessionManager, err := auth.NewSessionManager(redisClient, cfg.JWT.Expiration())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), sessionManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	editorService, err := editor.NewService(editor.NewStore(cfg.Editor.SessionTTL), cfg.Editor, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create editor service", err)
		os.Exit(1)
	}

	rule := pricing.BundleRule{
		Size:      cfg.Pricing.BundleSize,
		Price:     cfg.Pricing.BundlePrice,
		UnitPrice: cfg.Pricing.PhotostripUnitPrice,
	}

	cartRepo, err := cart.NewRepository(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart repository", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartRepo, productService, rule)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	uploadRepo := uploads.NewRepository(dbClient.DB())
	uploadService, err := uploads.NewService(uploadRepo, gcsClient, cfg.GCS, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload service", err)
		os.Exit(1)
	}

	uploadSweeper, err := uploads.NewSweeper(uploadRepo, gcsClient, cfg.Media.PendingUploadTTL, cfg.Media.SweepInterval, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create upload sweeper", err)
		os.Exit(1)
	}
	go uploadSweeper.Run(context.Background())

	settingsService, err := settings.NewService(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orderRepo, dbClient, outboxService, uploadRepo, gcsClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		orderRepo,
		cartRepo,
		uploadRepo,
		gcsClient,
		outboxService,
		settingsService,
		dbClient,
		cfg.Checkout,
		rule,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			httpMetrics,
			metricsHandler,
			sessionManager,
			authService,
			productService,
			editorService,
			cartService,
			uploadService,
			checkoutService,
			settingsService,
			orderService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
