package ports

import (
	"context"
	"time"

	"github.com/averost/commerce-api/internal/domains/records/domain"
)

// Service exposes the record-generation use cases to transports and jobs.
type Service interface {
	AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error)
	List(ctx context.Context) ([]domain.DataRecord, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
