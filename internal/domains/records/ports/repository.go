package ports

import (
	"context"
	"time"

	"github.com/averost/commerce-api/internal/domains/records/domain"
)

// Generator allocates gap-free sequential records. Implementations must
// guarantee that concurrent allocations never observe the same running
// number and never leave holes in the committed sequence.
type Generator interface {
	AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error)
	List(ctx context.Context) ([]domain.DataRecord, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
