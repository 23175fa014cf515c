package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogserver "github.com/apexretail/catalog-server/go"

	catalogmemory "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/apexretail/catalog-server/internal/domains/catalog/application"
	catalogports "github.com/apexretail/catalog-server/internal/domains/catalog/ports"

	ordermemory "github.com/apexretail/catalog-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/apexretail/catalog-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/apexretail/catalog-server/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/apexretail/catalog-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/apexretail/catalog-server/internal/domains/orders/application"
	ordersports "github.com/apexretail/catalog-server/internal/domains/orders/ports"

	reviewcustomers "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/customers"
	reviewmemory "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/memory"
	reviewsobs "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/observability"
	reviewpostgres "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/persistence/postgres"
	reviewsapp "github.com/apexretail/catalog-server/internal/domains/reviews/application"
	reviewsports "github.com/apexretail/catalog-server/internal/domains/reviews/ports"

	"github.com/apexretail/catalog-server/internal/platform/migrations"
	platformobservability "github.com/apexretail/catalog-server/internal/platform/observability"
	platformpostgres "github.com/apexretail/catalog-server/internal/platform/postgres"
)

// Run boots the catalog HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "catalog-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	catalogService := catalogobs.New(
		catalogapp.NewService(repos.stores, repos.products, repos.inventory,
			catalogapp.WithProductRowDeletion(cfg.DeleteProductRow)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders, repos.customers,
			ordersapp.WithIdempotencyStore(repos.idempotency)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	reviewService := reviewsobs.New(
		reviewsapp.NewService(repos.reviews, reviewcustomers.NewDirectory(repos.customers)),
		reviewsobs.WithLogger(logger),
		reviewsobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewsobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := catalogserver.ApiHandleFunctions{
		StoreAPI:     catalogserver.NewStoreAPI(catalogService, orderService, orderWorkflows),
		InventoryAPI: catalogserver.NewInventoryAPI(catalogService),
		ProductAPI:   catalogserver.NewProductAPI(catalogService),
		ReviewAPI:    catalogserver.NewReviewAPI(reviewService),
		CustomerAPI:  catalogserver.NewCustomerAPI(orderService),
	}

	router := catalogserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("catalog API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("catalog API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// repositories bundles the persistence ports of all bounded contexts so
// both backends can satisfy them as a set.
type repositories struct {
	stores      catalogports.StoreRepository
	products    catalogports.ProductRepository
	inventory   catalogports.InventoryRepository
	orders      ordersports.Repository
	customers   ordersports.CustomerRepository
	idempotency ordersports.IdempotencyStore
	reviews     reviewsports.Repository
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("schema migration failed", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryRepositories(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		stores:      catalogpostgres.NewStoreRepository(db),
		products:    catalogpostgres.NewProductRepository(db),
		inventory:   catalogpostgres.NewInventoryRepository(db),
		orders:      orderspostgres.NewRepository(db),
		customers:   orderspostgres.NewCustomerRepository(db),
		idempotency: orderspostgres.NewIdempotencyStore(db),
		reviews:     reviewpostgres.NewRepository(db),
	}, func() { _ = sqlDB.Close() }
}

// memoryRepositories shares one adapter set so the orders repository sees
// the same stock rows the catalog mutates.
func memoryRepositories() repositories {
	stores := catalogmemory.NewStoreRepository()
	inventory := catalogmemory.NewInventoryRepository()
	products := catalogmemory.NewProductRepository(inventory)
	customers := ordermemory.NewCustomerRepository()
	return repositories{
		stores:      stores,
		products:    products,
		inventory:   inventory,
		orders:      ordermemory.NewRepository(stores, products, inventory, customers),
		customers:   customers,
		idempotency: ordermemory.NewIdempotencyStore(),
		reviews:     reviewmemory.NewRepository(),
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
