package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arto/mercator-backend/api/routes"
	"github.com/arto/mercator-backend/internal/catalog"
	checkoutsvc "github.com/arto/mercator-backend/internal/checkout"
	"github.com/arto/mercator-backend/internal/ledger"
	stripewebhook "github.com/arto/mercator-backend/internal/webhooks/stripe"
	"github.com/arto/mercator-backend/pkg/auth/session"
	"github.com/arto/mercator-backend/pkg/config"
	"github.com/arto/mercator-backend/pkg/db"
	"github.com/arto/mercator-backend/pkg/db/models"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/metrics"
	"github.com/arto/mercator-backend/pkg/migrate"
	"github.com/arto/mercator-backend/pkg/printful"
	"github.com/arto/mercator-backend/pkg/redis"
	"github.com/arto/mercator-backend/pkg/stripe"
)

const webhookGuardTTL = 24 * time.Hour

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.UseSQLite {
		if err := dbClient.DB().AutoMigrate(&models.Map{}, &models.Chapter{}, &models.ProcessedCheckout{}); err != nil {
			logg.Error(context.Background(), "failed to sync sqlite schema", err)
			os.Exit(1)
		}
	} else if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	var sessions *session.Manager
	if cfg.Admin.SessionSecret != "" {
		sessions, err = session.NewManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create admin session manager", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "MERCATOR_ADMIN_SESSION_SECRET unset, admin editor disabled")
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	if cfg.FeatureFlags.SeedCatalog {
		if err := catalogService.EnsureSeed(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	var stripeClient *stripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create stripe client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "MERCATOR_STRIPE_SECRET_KEY unset, checkout and webhooks disabled")
	}

	var sessionCreator checkoutsvc.SessionCreator
	if stripeClient != nil {
		sessionCreator = stripeClient
	}
	checkoutService, err := checkoutsvc.NewService(catalogService, sessionCreator, checkoutsvc.Config{
		StoreName:        cfg.Store.Name,
		Currency:         cfg.Store.Currency,
		AllowedCountries: cfg.Store.AllowedCountries,
		SuccessURL:       cfg.Site.SuccessURL(),
		CancelURL:        cfg.Site.CancelURL(),
	}, logg, storefrontMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	// A nil printful client still satisfies the webhook service; order
	// submissions then fail with a configuration error instead of a panic.
	var printfulClient *printful.Client
	if cfg.Printful.APIKey != "" {
		printfulClient, err = printful.NewClient(cfg.Printful.APIKey, cfg.Printful.StoreID,
			printful.WithBaseURL(cfg.Printful.BaseURL))
		if err != nil {
			logg.Error(context.Background(), "failed to create printful client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "MERCATOR_PRINTFUL_API_KEY unset, fulfillment orders disabled")
	}

	webhookParams := stripewebhook.ServiceParams{
		Ledger:   ledgerService,
		Printful: printfulClient,
		Logger:   logg,
		Metrics:  storefrontMetrics,
	}
	if stripeClient != nil {
		webhookParams.Stripe = stripeClient
	}
	if redisClient != nil {
		guard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookGuardTTL, "stripe-webhook")
		if err != nil {
			logg.Error(context.Background(), "failed to create webhook guard", err)
			os.Exit(1)
		}
		webhookParams.Guard = guard
	}
	webhookService, err := stripewebhook.NewService(webhookParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Sessions: sessions,
		Catalog:  catalogService,
		Checkout: checkoutService,
		Webhook:  webhookService,
		Metrics:  storefrontMetrics,
		Registry: registry,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}
	if stripeClient != nil {
		deps.StripeSigner = stripeClient
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
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
