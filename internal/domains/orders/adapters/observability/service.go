package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/averost/commerce-api/internal/domains/orders/domain"
	ordersports "github.com/averost/commerce-api/internal/domains/orders/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

const tracerName = "github.com/averost/commerce-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
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

func (s *Service) PlaceOrder(ctx context.Context, req ordersdomain.PurchaseRequest) (*ordersdomain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.product_id", req.ProductID),
			attribute.Int64("order.quantity", req.Quantity),
		))
	defer span.End()

	s.logInfo(ctx, "placing order",
		slog.String("order.product_id", req.ProductID),
		slog.Int64("order.quantity", req.Quantity))
	receipt, err := s.inner.PlaceOrder(ctx, req)
	if err != nil {
		kind := fault.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("order.outcome", kind.String()))
		s.metrics.recordRejected(ctx, kind)
		s.logError(ctx, "order rejected", err,
			slog.String("order.product_id", req.ProductID),
			slog.String("order.outcome", kind.String()))
		return nil, err
	}
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed",
		slog.String("order.id", receipt.Order.ID),
		slog.String("order.total_price", receipt.Order.TotalPrice.String()),
		slog.Int64("product.stock", receipt.Product.Stock))
	return receipt, nil
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

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders committed"))
	rejected, _ := m.Int64Counter("orders.service.rejected", metric.WithDescription("Number of orders rejected, by fault kind"))
	return serviceMetrics{ordersPlaced: placed, ordersRejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind fault.Kind) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("fault.kind", kind.String())))
	}
}

var _ ordersports.Service = (*Service)(nil)
