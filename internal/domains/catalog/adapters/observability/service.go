package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/apexretail/catalog-server/internal/domains/catalog/domain"
	"github.com/apexretail/catalog-server/internal/domains/catalog/ports"
)

const tracerName = "github.com/apexretail/catalog-server/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateStore(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateStore")
	defer span.End()
	result, err := s.inner.CreateStore(ctx, store)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create store")
	}
	s.metrics.recordStoreCreated(ctx)
	s.logInfo(ctx, "store created", slog.Int64("store.id", result.ID))
	return result, nil
}

func (s *Service) StoreExists(ctx context.Context, storeID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.StoreExists",
		trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()
	ok, err := s.inner.StoreExists(ctx, storeID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check store", slog.Int64("store.id", storeID))
	}
	return ok, nil
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()
	result, err := s.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	s.metrics.recordProductCreated(ctx)
	s.logInfo(ctx, "product created", slog.Int64("product.id", result.ID), slog.String("product.sku", result.SKU))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product")
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	result, err := s.inner.GetProduct(ctx, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", productID))
	}
	return result, nil
}

func (s *Service) ProductExists(ctx context.Context, productID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ProductExists",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	ok, err := s.inner.ProductExists(ctx, productID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check product", slog.Int64("product.id", productID))
	}
	return ok, nil
}

func (s *Service) ProductNameAvailable(ctx context.Context, name string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ProductNameAvailable")
	defer span.End()
	ok, err := s.inner.ProductNameAvailable(ctx, name)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check product name")
	}
	return ok, nil
}

func (s *Service) CreateInventory(ctx context.Context, inv *domain.Inventory) (*domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateInventory")
	defer span.End()
	result, err := s.inner.CreateInventory(ctx, inv)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create inventory row")
	}
	s.logInfo(ctx, "inventory row created",
		slog.Int64("product.id", result.ProductID), slog.Int64("store.id", result.StoreID))
	return result, nil
}

func (s *Service) UpdateStock(ctx context.Context, input ports.UpdateStockInput) (*domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateStock",
		trace.WithAttributes(
			attribute.Int64("product.id", input.ProductID),
			attribute.Int64("store.id", input.StoreID)))
	defer span.End()
	result, err := s.inner.UpdateStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update stock",
			slog.Int64("product.id", input.ProductID), slog.Int64("store.id", input.StoreID))
	}
	s.metrics.recordStockUpdated(ctx)
	s.logInfo(ctx, "stock updated",
		slog.Int64("product.id", result.ProductID),
		slog.Int64("store.id", result.StoreID),
		slog.Int64("stock.level", result.StockLevel))
	return result, nil
}

func (s *Service) LookupInventory(ctx context.Context, productID, storeID int64) (*domain.Inventory, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LookupInventory")
	defer span.End()
	result, err := s.inner.LookupInventory(ctx, productID, storeID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to look up inventory row",
			slog.Int64("product.id", productID), slog.Int64("store.id", storeID))
	}
	return result, nil
}

func (s *Service) InventoryPairAvailable(ctx context.Context, productID, storeID int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.InventoryPairAvailable")
	defer span.End()
	ok, err := s.inner.InventoryPairAvailable(ctx, productID, storeID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check inventory pair")
	}
	return ok, nil
}

func (s *Service) CheckAvailability(ctx context.Context, productID, storeID, quantity int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CheckAvailability",
		trace.WithAttributes(
			attribute.Int64("product.id", productID),
			attribute.Int64("store.id", storeID),
			attribute.Int64("quantity", quantity)))
	defer span.End()
	ok, err := s.inner.CheckAvailability(ctx, productID, storeID, quantity)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check availability")
	}
	return ok, nil
}

func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.RemoveProduct",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()
	if err := s.inner.RemoveProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, err, "failed to remove product", slog.Int64("product.id", productID))
	}
	s.metrics.recordProductRemoved(ctx)
	s.logInfo(ctx, "product inventory removed", slog.Int64("product.id", productID))
	return nil
}

func (s *Service) ProductsForStore(ctx context.Context, storeID int64) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ProductsForStore",
		trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()
	result, err := s.inner.ProductsForStore(ctx, storeID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list store products", slog.Int64("store.id", storeID))
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) Filter(ctx context.Context, storeID int64, filter ports.ProductFilter) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Filter",
		trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()
	result, err := s.inner.Filter(ctx, storeID, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to filter store products", slog.Int64("store.id", storeID))
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) SearchByName(ctx context.Context, storeID int64, name string) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SearchByName",
		trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()
	result, err := s.inner.SearchByName(ctx, storeID, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search store products", slog.Int64("store.id", storeID))
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	storesCreated   metric.Int64Counter
	productsCreated metric.Int64Counter
	productsRemoved metric.Int64Counter
	stockUpdates    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	storesCreated, _ := m.Int64Counter("catalog.service.stores_created", metric.WithDescription("Number of stores created"))
	productsCreated, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	productsRemoved, _ := m.Int64Counter("catalog.service.products_removed", metric.WithDescription("Number of product inventory cascades"))
	stockUpdates, _ := m.Int64Counter("catalog.service.stock_updates", metric.WithDescription("Number of stock overwrites"))
	return serviceMetrics{
		storesCreated:   storesCreated,
		productsCreated: productsCreated,
		productsRemoved: productsRemoved,
		stockUpdates:    stockUpdates,
	}
}

func (m serviceMetrics) recordStoreCreated(ctx context.Context) {
	if m.storesCreated != nil {
		m.storesCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordProductCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordProductRemoved(ctx context.Context) {
	if m.productsRemoved != nil {
		m.productsRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStockUpdated(ctx context.Context) {
	if m.stockUpdates != nil {
		m.stockUpdates.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
