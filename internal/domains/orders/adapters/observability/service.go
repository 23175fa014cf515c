package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/apexretail/catalog-server/internal/domains/orders/domain"
	"github.com/apexretail/catalog-server/internal/domains/orders/ports"
)

const tracerName = "github.com/apexretail/catalog-server/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
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

// New wraps the core orders service.
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

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.Int64("order.store_id", input.Draft.StoreID),
			attribute.Int("order.lines", len(input.Draft.Lines))))
	defer span.End()

	s.logInfo(ctx, "placing order",
		slog.Int64("store.id", input.Draft.StoreID), slog.Int("lines", len(input.Draft.Lines)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("store.id", input.Draft.StoreID))
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.ID),
		slog.Int64("store.id", result.StoreID),
		slog.Float64("order.total", result.TotalPrice))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateCustomer")
	defer span.End()

	result, err := s.inner.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create customer")
	}
	s.logInfo(ctx, "customer created", slog.Int64("customer.id", result.ID))
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
	ordersPlaced metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	return serviceMetrics{ordersPlaced: ordersPlaced}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
