package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/averost/commerce-api/internal/domains/records/domain"
	"github.com/averost/commerce-api/internal/domains/records/ports"
)

var _ ports.Generator = (*Generator)(nil)

// Generator is an in-memory allocator with the same serialization
// guarantees as the PostgreSQL adapter. The mutex plays the part of the
// advisory lock.
type Generator struct {
	mu      sync.Mutex
	records []domain.DataRecord
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	next := int64(1)
	if n := len(g.records); n > 0 {
		next = g.records[n-1].RunningNumber + 1
	}
	now := time.Now().UTC()
	record := domain.DataRecord{
		ID:            uuid.NewString(),
		UniqueCode:    domain.CodeFor(next),
		RunningNumber: next,
		Payload:       req.Payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g.records = append(g.records, record)
	out := record
	return &out, nil
}

func (g *Generator) List(ctx context.Context) ([]domain.DataRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]domain.DataRecord, len(g.records))
	copy(out, g.records)
	sort.Slice(out, func(i, j int) bool { return out[i].RunningNumber > out[j].RunningNumber })
	return out, nil
}

func (g *Generator) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.records[:0]
	var purged int64
	for _, record := range g.records {
		if record.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, record)
	}
	g.records = kept
	return purged, nil
}

// Reset clears all state, used by provider-state handlers in tests.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = nil
}
