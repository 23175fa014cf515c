package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/apexretail/catalog-server/internal/domains/reviews/domain"
	"github.com/apexretail/catalog-server/internal/domains/reviews/ports"
)

const tracerName = "github.com/apexretail/catalog-server/internal/domains/reviews/adapters/observability/service"

// Service decorates the reviews service with tracing, logging, and metrics.
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

// New wraps the core reviews service.
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

func (s *Service) AddReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	attrs := []attribute.KeyValue{}
	if review != nil {
		attrs = append(attrs,
			attribute.Int64("review.store_id", review.StoreID),
			attribute.Int64("review.product_id", review.ProductID))
	}
	ctx, span := s.tracer.Start(ctx, "ReviewService.AddReview", trace.WithAttributes(attrs...))
	defer span.End()

	result, err := s.inner.AddReview(ctx, review)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add review")
	}
	s.metrics.recordAdded(ctx)
	s.logInfo(ctx, "review added",
		slog.Int64("review.id", result.ID),
		slog.Int64("product.id", result.ProductID),
		slog.Int("rating", result.Rating))
	return result, nil
}

func (s *Service) ListReviews(ctx context.Context, storeID, productID int64) ([]ports.ReviewView, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ListReviews",
		trace.WithAttributes(
			attribute.Int64("review.store_id", storeID),
			attribute.Int64("review.product_id", productID)))
	defer span.End()

	result, err := s.inner.ListReviews(ctx, storeID, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list reviews",
			slog.Int64("store.id", storeID), slog.Int64("product.id", productID))
	}
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
	reviewsAdded metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	reviewsAdded, _ := m.Int64Counter("reviews.service.reviews_added", metric.WithDescription("Number of reviews added"))
	return serviceMetrics{reviewsAdded: reviewsAdded}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.reviewsAdded != nil {
		m.reviewsAdded.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
