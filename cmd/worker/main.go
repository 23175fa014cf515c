package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/memory"
	ordermemory "github.com/apexretail/catalog-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/apexretail/catalog-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/apexretail/catalog-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/apexretail/catalog-server/internal/domains/orders/application"
	ordersports "github.com/apexretail/catalog-server/internal/domains/orders/ports"
	"github.com/apexretail/catalog-server/internal/platform/migrations"
	platformobservability "github.com/apexretail/catalog-server/internal/platform/observability"
	platformpostgres "github.com/apexretail/catalog-server/internal/platform/postgres"
	orderactivities "github.com/apexretail/catalog-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/apexretail/catalog-server/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "catalog-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, customerRepo, idempotencyStore, cleanupRepo := buildOrderRepositories(ctx, logger)
	defer cleanupRepo()
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, customerRepo,
			ordersapp.WithIdempotencyStore(idempotencyStore)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PlaceOrder, activity.RegisterOptions{Name: orderworkflows.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepositories(ctx context.Context, logger *slog.Logger) (ordersports.Repository, ordersports.CustomerRepository, ordersports.IdempotencyStore, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return memoryOrderRepositories()
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return memoryOrderRepositories()
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return memoryOrderRepositories()
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("worker schema migration failed", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryOrderRepositories()
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db),
		orderspostgres.NewCustomerRepository(db),
		orderspostgres.NewIdempotencyStore(db),
		func() { _ = sqlDB.Close() }
}

func memoryOrderRepositories() (ordersports.Repository, ordersports.CustomerRepository, ordersports.IdempotencyStore, func()) {
	stores := catalogmemory.NewStoreRepository()
	inventory := catalogmemory.NewInventoryRepository()
	products := catalogmemory.NewProductRepository(inventory)
	customers := ordermemory.NewCustomerRepository()
	return ordermemory.NewRepository(stores, products, inventory, customers),
		customers,
		ordermemory.NewIdempotencyStore(),
		func() {}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
