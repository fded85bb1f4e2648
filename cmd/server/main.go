package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/application/exporter"
	"github.com/myfrido/analytics-backend/internal/application/report"
	appsync "github.com/myfrido/analytics-backend/internal/application/sync"
	"github.com/myfrido/analytics-backend/internal/infrastructure/ads"
	"github.com/myfrido/analytics-backend/internal/infrastructure/cache"
	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
	"github.com/myfrido/analytics-backend/internal/infrastructure/logger"
	"github.com/myfrido/analytics-backend/internal/infrastructure/shopify"
	"github.com/myfrido/analytics-backend/internal/infrastructure/storage"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	"github.com/myfrido/analytics-backend/internal/infrastructure/warehouse"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/handler"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/middleware"
	"github.com/myfrido/analytics-backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting analytics backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Cache is best-effort: a failed connection logs a warning and the
	// server runs without caching.
	cacheStore, err := cache.New(cfg.Cache)
	if err != nil {
		log.Warn("Cache unavailable, continuing without it",
			zap.String("addr", cfg.Cache.Addr()), zap.Error(err))
		cacheStore = nil
	} else {
		log.Info("Cache connected", zap.String("addr", cfg.Cache.Addr()))
	}

	// DynamoDB repositories
	dynamoClient, err := store.NewClient(ctx, cfg.Dynamo)
	if err != nil {
		log.Fatal("Failed to create store client", zap.Error(err))
	}
	ordersRepo := store.NewOrdersRepository(dynamoClient, cfg.Dynamo.OrdersTable)
	productsRepo := store.NewProductsRepository(dynamoClient, cfg.Dynamo.ProductsTable)
	syncRepo := store.NewSyncRepository(dynamoClient, cfg.Dynamo.SyncTable)

	// With Admin API credentials the server registers order webhooks and
	// backfills changes missed while it was down. Both are best-effort.
	if cfg.Shopify.ShopDomain != "" && cfg.Shopify.AccessToken != "" {
		shopClient, err := shopify.NewClient(&shopify.Config{
			ShopDomain:  cfg.Shopify.ShopDomain,
			AccessToken: cfg.Shopify.AccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
		})
		if err != nil {
			log.Fatal("Invalid Shopify configuration", zap.Error(err))
		}
		syncer := appsync.NewSyncer(shopClient, ordersRepo, syncRepo, log)
		go func() {
			startupCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if cfg.Shopify.CallbackBaseURL != "" {
				if err := syncer.RegisterWebhooks(startupCtx, cfg.Shopify.CallbackBaseURL); err != nil {
					log.Warn("Webhook registration failed", zap.Error(err))
				}
			}
			if _, err := syncer.Backfill(startupCtx); err != nil {
				log.Warn("Order backfill failed", zap.Error(err))
			}
		}()
	}

	// BigQuery warehouse. The report endpoints need it; without a
	// project id they respond with an explicit not-configured error.
	wh := warehouse.Unconfigured()
	if cfg.BigQuery.ProjectID != "" {
		client, err := warehouse.New(ctx, cfg.BigQuery)
		if err != nil {
			log.Fatal("Failed to create warehouse client", zap.Error(err))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing warehouse client", zap.Error(err))
			}
		}()
		wh = client
		log.Info("Warehouse connected", zap.String("project", cfg.BigQuery.ProjectID))
	} else {
		log.Warn("BigQuery not configured, report endpoints will fail")
	}

	// Ad platform adapters. Either can be absent; overview metrics then
	// report zero spend for that platform.
	var metaAds, googleAds report.AdsFetcher
	if cfg.MetaAds.AdAccountID != "" {
		adapter, err := ads.NewMetaAdapter(&ads.MetaConfig{
			AccessToken:    cfg.MetaAds.AccessToken,
			AdAccountID:    cfg.MetaAds.AdAccountID,
			APIBaseURL:     cfg.MetaAds.APIBaseURL,
			TimeoutSeconds: cfg.MetaAds.TimeoutSeconds,
		})
		if err != nil {
			log.Fatal("Invalid Meta Ads configuration", zap.Error(err))
		}
		metaAds = adapter
		log.Info("Meta Ads adapter configured", zap.String("account", cfg.MetaAds.AdAccountID))
	}
	if cfg.GoogleAds.CustomerID != "" {
		adapter, err := ads.NewGoogleAdapter(&ads.GoogleConfig{
			DeveloperToken: cfg.GoogleAds.DeveloperToken,
			AccessToken:    cfg.GoogleAds.AccessToken,
			CustomerID:     cfg.GoogleAds.CustomerID,
			APIBaseURL:     cfg.GoogleAds.APIBaseURL,
			TimeoutSeconds: cfg.GoogleAds.TimeoutSeconds,
		})
		if err != nil {
			log.Fatal("Invalid Google Ads configuration", zap.Error(err))
		}
		googleAds = adapter
		log.Info("Google Ads adapter configured", zap.String("customer", cfg.GoogleAds.CustomerID))
	}

	// Report services
	ordersReports := report.NewOrdersService(wh, metaAds, googleAds, cacheStore, cfg.Cache.DefaultTTL, log)
	amazonReports := report.NewAmazonService(wh, cfg.Amazon, cacheStore, cfg.Cache.DefaultTTL, log)
	productsReports := report.NewProductsService(productsRepo, cfg.Catalog.LowStockThreshold, cacheStore, cfg.Cache.DefaultTTL, log)

	// Keep the most-polled report warm in memory.
	warmCtx, stopWarm := context.WithCancel(ctx)
	defer stopWarm()
	productsReports.WarmLowStock(warmCtx, 5*time.Minute)

	// CSV exporter behind POST /orders/export-csv, with optional S3
	// upload when a bucket is configured.
	var uploader exporter.Uploader
	if cfg.Export.S3Bucket != "" {
		s3up, err := storage.NewS3Uploader(ctx, cfg.Export, cfg.Dynamo.Region, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create export uploader", zap.Error(err))
		}
		uploader = s3up
		log.Info("Export uploads enabled", zap.String("bucket", cfg.Export.S3Bucket))
	}
	csvExporter := exporter.New(cfg.Export.Dir, uploader, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, panic recovery, request logging,
	// then CORS.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler()).
		Register(handler.NewOrdersHandler(ordersReports, ordersRepo, csvExporter, cfg.App.DefaultStore)).
		Register(handler.NewProductsHandler(productsReports, cfg.App.DefaultStore)).
		Register(handler.NewAmazonHandler(amazonReports)).
		Register(handler.NewMetaAdsHandler(ordersReports)).
		Register(handler.NewGoogleAdsHandler(ordersReports))
	if cfg.Shopify.WebhookSecret != "" {
		r.Register(handler.NewWebhooksHandler(cfg.Shopify.WebhookSecret, ordersRepo, log))
	} else {
		log.Warn("Shopify webhook secret not configured, webhook route disabled")
	}
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
