package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
	"github.com/myfrido/analytics-backend/internal/infrastructure/logger"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
	lambdaapi "github.com/myfrido/analytics-backend/internal/interfaces/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	client, err := store.NewClient(context.Background(), cfg.Dynamo)
	if err != nil {
		log.Fatal("Failed to create store client", zap.Error(err))
	}

	handler := lambdaapi.NewHandler(
		store.NewOrdersRepository(client, cfg.Dynamo.OrdersTable),
		store.NewProductsRepository(client, cfg.Dynamo.ProductsTable),
		store.NewCustomersRepository(client, cfg.Dynamo.CustomersTable),
		store.NewSyncRepository(client, cfg.Dynamo.SyncTable),
		log,
	)

	awslambda.Start(handler.Handle)
}
