package application

import (
	"context"
	"errors"
	"time"

	"github.com/averost/commerce-api/internal/domains/records/domain"
	"github.com/averost/commerce-api/internal/domains/records/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// Service fronts the gap-free record generator. Payload validation
// happens here; the sequencing itself is the generator's job.
type Service struct {
	generator ports.Generator
}

func NewService(generator ports.Generator) *Service {
	return &Service{generator: generator}
}

func (s *Service) AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, mapError(err)
	}
	record, err := s.generator.AllocateNext(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (s *Service) List(ctx context.Context) ([]domain.DataRecord, error) {
	records, err := s.generator.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

func (s *Service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	purged, err := s.generator.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, mapError(err)
	}
	return purged, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidPayload) {
		return fault.New(fault.KindValidation, err)
	}
	return fault.Classify(err)
}

var _ ports.Service = (*Service)(nil)
