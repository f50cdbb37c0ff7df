package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/commerce-api/internal/domains/records/domain"
)

func TestAllocateNext_SequenceStartsAtOne(t *testing.T) {
	gen := NewGenerator()
	ctx := context.Background()

	first, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.RunningNumber)
	assert.Equal(t, "DATA-000001", first.UniqueCode)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.RunningNumber)
	assert.Equal(t, "DATA-000002", second.UniqueCode)
}

func TestAllocateNext_KeepsPayload(t *testing.T) {
	gen := NewGenerator()
	payload := json.RawMessage(`{"source":"import","batch":7}`)

	record, err := gen.AllocateNext(context.Background(), domain.AllocationRequest{Payload: payload})
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(record.Payload))
}

// Two racing allocators must come away with consecutive, distinct codes.
func TestAllocateNext_TwoConcurrentAllocations(t *testing.T) {
	gen := NewGenerator()

	var wg sync.WaitGroup
	codes := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := gen.AllocateNext(context.Background(), domain.AllocationRequest{})
			require.NoError(t, err)
			codes[i] = record.UniqueCode
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, codes[0], codes[1])
	assert.ElementsMatch(t, []string{"DATA-000001", "DATA-000002"}, codes)
}

// N concurrent allocations must produce exactly the numbers 1..N with no
// duplicates and no gaps, in some order.
func TestAllocateNext_ManyConcurrentAllocationsAreGapFree(t *testing.T) {
	gen := NewGenerator()
	const n = 50

	var wg sync.WaitGroup
	numbers := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := gen.AllocateNext(context.Background(), domain.AllocationRequest{})
			require.NoError(t, err)
			numbers[i] = record.RunningNumber
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, num := range numbers {
		assert.False(t, seen[num], "running number %d allocated twice", num)
		seen[num] = true
	}
	for want := int64(1); want <= n; want++ {
		assert.True(t, seen[want], "running number %d missing from sequence", want)
	}
}

func TestList_NewestFirst(t *testing.T) {
	gen := NewGenerator()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
		require.NoError(t, err)
	}

	records, err := gen.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), records[0].RunningNumber)
	assert.Equal(t, int64(1), records[2].RunningNumber)
}

func TestPurgeOlderThan_RemovesOnlyStaleRecords(t *testing.T) {
	gen := NewGenerator()
	ctx := context.Background()

	old, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.NoError(t, err)
	cutoff := time.Now().UTC().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)
	fresh, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.NoError(t, err)

	purged, err := gen.PurgeOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	records, err := gen.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, fresh.ID, records[0].ID)
	assert.NotEqual(t, old.ID, records[0].ID)
}

// Purging history must not rewind the sequence.
func TestPurge_DoesNotRewindSequence(t *testing.T) {
	gen := NewGenerator()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
		require.NoError(t, err)
	}
	records, err := gen.List(ctx)
	require.NoError(t, err)
	// Keep the tail, purge the two oldest.
	cutoff := records[0].CreatedAt
	_, err = gen.PurgeOlderThan(ctx, cutoff)
	require.NoError(t, err)

	next, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), next.RunningNumber)
}

func TestAllocateNext_CancelledContext(t *testing.T) {
	gen := NewGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.AllocateNext(ctx, domain.AllocationRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
