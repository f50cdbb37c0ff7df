package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/commerce-api/internal/domains/records/domain"
	"github.com/averost/commerce-api/internal/shared/fault"
)

type fakeGenerator struct {
	allocated *domain.DataRecord
	listed    []domain.DataRecord
	purged    int64
	err       error
	calls     int
}

func (f *fakeGenerator) AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.allocated, nil
}

func (f *fakeGenerator) List(ctx context.Context) ([]domain.DataRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listed, nil
}

func (f *fakeGenerator) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.purged, nil
}

func TestAllocateNext_Delegates(t *testing.T) {
	want := &domain.DataRecord{ID: "rec-1", UniqueCode: "DATA-000001", RunningNumber: 1}
	gen := &fakeGenerator{allocated: want}
	svc := NewService(gen)

	got, err := svc.AllocateNext(context.Background(), domain.AllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, gen.calls)
}

func TestAllocateNext_InvalidPayloadShortCircuits(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(gen)

	_, err := svc.AllocateNext(context.Background(), domain.AllocationRequest{
		Payload: json.RawMessage(`{"broken":`),
	})
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	assert.Zero(t, gen.calls, "generator must not run for invalid payloads")
}

func TestAllocateNext_UnknownErrorClassifiedPersistence(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	svc := NewService(gen)

	_, err := svc.AllocateNext(context.Background(), domain.AllocationRequest{})
	require.Error(t, err)
	assert.Equal(t, fault.KindPersistence, fault.KindOf(err))
}

func TestAllocateNext_TransientPassesThrough(t *testing.T) {
	transient := fault.New(fault.KindTransient, errors.New("lock timeout"))
	gen := &fakeGenerator{err: transient}
	svc := NewService(gen)

	_, err := svc.AllocateNext(context.Background(), domain.AllocationRequest{})
	require.Error(t, err)
	assert.Equal(t, fault.KindTransient, fault.KindOf(err))
}

func TestList_Delegates(t *testing.T) {
	gen := &fakeGenerator{listed: []domain.DataRecord{{ID: "rec-2"}, {ID: "rec-1"}}}
	svc := NewService(gen)

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPurgeOlderThan_Delegates(t *testing.T) {
	gen := &fakeGenerator{purged: 4}
	svc := NewService(gen)

	purged, err := svc.PurgeOlderThan(context.Background(), time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), purged)
}
