package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	recordsdomain "github.com/averost/commerce-api/internal/domains/records/domain"
	recordsports "github.com/averost/commerce-api/internal/domains/records/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

const tracerName = "github.com/averost/commerce-api/internal/domains/records/adapters/observability/service"

// Service decorates the records service with tracing, logging, and metrics.
type Service struct {
	inner   recordsports.Service
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

// New wraps the core records service.
func New(inner recordsports.Service, opts ...Option) recordsports.Service {
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

func (s *Service) AllocateNext(ctx context.Context, req recordsdomain.AllocationRequest) (*recordsdomain.DataRecord, error) {
	ctx, span := s.tracer.Start(ctx, "RecordService.AllocateNext")
	defer span.End()

	record, err := s.inner.AllocateNext(ctx, req)
	if err != nil {
		kind := fault.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordFailed(ctx, kind)
		s.logError(ctx, "record allocation failed", err,
			slog.String("record.outcome", kind.String()))
		return nil, err
	}
	span.SetAttributes(attribute.Int64("record.running_number", record.RunningNumber))
	s.metrics.recordAllocated(ctx)
	s.logInfo(ctx, "record allocated",
		slog.String("record.unique_code", record.UniqueCode),
		slog.Int64("record.running_number", record.RunningNumber))
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]recordsdomain.DataRecord, error) {
	ctx, span := s.tracer.Start(ctx, "RecordService.List")
	defer span.End()

	records, err := s.inner.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("record.count", len(records)))
	return records, nil
}

func (s *Service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "RecordService.PurgeOlderThan",
		trace.WithAttributes(attribute.String("record.cutoff", cutoff.Format(time.RFC3339))))
	defer span.End()

	purged, err := s.inner.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logError(ctx, "record purge failed", err)
		return 0, err
	}
	s.metrics.recordPurged(ctx, purged)
	s.logInfo(ctx, "records purged", slog.Int64("record.purged", purged))
	return purged, nil
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
	allocated metric.Int64Counter
	failed    metric.Int64Counter
	purged    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	allocated, _ := m.Int64Counter("records.service.allocated", metric.WithDescription("Number of sequence allocations committed"))
	failed, _ := m.Int64Counter("records.service.failed", metric.WithDescription("Number of failed allocations, by fault kind"))
	purged, _ := m.Int64Counter("records.service.purged", metric.WithDescription("Number of records removed by retention purges"))
	return serviceMetrics{allocated: allocated, failed: failed, purged: purged}
}

func (m serviceMetrics) recordAllocated(ctx context.Context) {
	if m.allocated != nil {
		m.allocated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context, kind fault.Kind) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("fault.kind", kind.String())))
	}
}

func (m serviceMetrics) recordPurged(ctx context.Context, count int64) {
	if m.purged != nil && count > 0 {
		m.purged.Add(ctx, count)
	}
}

var _ recordsports.Service = (*Service)(nil)
