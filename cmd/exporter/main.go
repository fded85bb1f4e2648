package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/application/exporter"
	"github.com/myfrido/analytics-backend/internal/application/importer"
	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
	"github.com/myfrido/analytics-backend/internal/infrastructure/logger"
	"github.com/myfrido/analytics-backend/internal/infrastructure/storage"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
)

func main() {
	var (
		resource string
		outDir   string
		upload   bool
	)

	flag.StringVar(&resource, "resource", importer.ResourceOrders, "Resource to export: orders, products or customers")
	flag.StringVar(&outDir, "out-dir", "", "Output directory (default from config)")
	flag.BoolVar(&upload, "upload", false, "Upload the finished file to the configured S3 bucket")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	client, err := store.NewClient(ctx, cfg.Dynamo)
	if err != nil {
		log.Fatal("Failed to create store client", zap.Error(err))
	}

	var uploader exporter.Uploader
	if upload {
		s3up, err := storage.NewS3Uploader(ctx, cfg.Export, cfg.Dynamo.Region, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create export uploader", zap.Error(err))
		}
		uploader = s3up
	}

	exp := exporter.New(outDir, uploader, log)

	var result *exporter.Result
	switch resource {
	case importer.ResourceOrders:
		result, err = exp.ExportOrders(ctx, store.NewOrdersRepository(client, cfg.Dynamo.OrdersTable))
	case importer.ResourceProducts:
		result, err = exp.ExportProducts(ctx, store.NewProductsRepository(client, cfg.Dynamo.ProductsTable))
	case importer.ResourceCustomers:
		result, err = exp.ExportCustomers(ctx, store.NewCustomersRepository(client, cfg.Dynamo.CustomersTable))
	default:
		log.Fatal("Unknown resource", zap.String("resource", resource))
	}
	if err != nil {
		log.Error("Export failed", zap.String("resource", resource), zap.Error(err))
		os.Exit(1)
	}

	log.Info("Export finished",
		zap.String("resource", resource),
		zap.String("path", result.Path),
		zap.Int("rows", result.Rows),
		zap.String("remote_key", result.RemoteKey),
	)
}
