package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/averost/commerce-api/internal/domains/records/domain"
	"github.com/averost/commerce-api/internal/domains/records/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

var _ ports.Generator = (*Generator)(nil)

const (
	// DefaultLockWait bounds how long an allocation waits for the
	// sequence lock before rolling back with a transient failure.
	DefaultLockWait = 3 * time.Second

	// sequenceLockName keys the advisory lock that serializes
	// allocations. Held until the transaction commits or rolls back.
	sequenceLockName = "data_records_sequence"

	// defaultMaxAttempts bounds the retry loop around the unique index
	// on running_number. The advisory lock serializes the generator's
	// own callers, so conflicts only arise from writers that bypass it.
	defaultMaxAttempts = 5
)

// Generator allocates gap-free sequential records in PostgreSQL.
//
// Each allocation takes a transaction-scoped advisory lock, reads the
// current maximum running number, and inserts max+1 before committing.
// A plain FOR UPDATE on the tail row is not enough under READ
// COMMITTED: a waiter blocked on the tail lock wakes with a statement
// snapshot that predates the winner's insert, recomputes the same
// stale max+1, and collides. The advisory lock is taken before the
// read, so each caller in the queue observes the previous commit. The
// unique index on running_number stays as a backstop and the insert is
// retried on a conflict.
type Generator struct {
	db          *gorm.DB
	lockWait    time.Duration
	maxAttempts int
}

// NewGenerator wires a PostgreSQL-backed generator. Caller manages DB
// lifecycle.
func NewGenerator(db *gorm.DB, lockWait time.Duration) *Generator {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Generator{db: db, lockWait: lockWait, maxAttempts: defaultMaxAttempts}
}

type dataRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:uuid"`
	UniqueCode    string          `gorm:"column:unique_code"`
	RunningNumber int64           `gorm:"column:running_number"`
	Payload       json.RawMessage `gorm:"column:payload;type:jsonb"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (dataRecord) TableName() string { return "data_records" }

// AllocateNext assigns the next running number and its code. Concurrent
// allocations serialize on the advisory lock; a conflict on the unique
// index retries the whole transaction up to maxAttempts times.
func (g *Generator) AllocateNext(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error) {
	if err := g.ensureDB(); err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		record, err := g.allocateOnce(ctx, req)
		if err == nil {
			return record, nil
		}
		if !fault.IsConflict(err) {
			return nil, err
		}
		lastErr = err
	}
	// Persistent conflicts mean some writer keeps landing on our
	// numbers outside the lock; surface as transient so callers may
	// resubmit.
	return nil, fault.New(fault.KindTransient,
		fmt.Errorf("sequence allocation retries exhausted: %w", lastErr))
}

func (g *Generator) allocateOnce(ctx context.Context, req domain.AllocationRequest) (*domain.DataRecord, error) {
	var out *domain.DataRecord
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", g.lockWait.Milliseconds())).Error; err != nil {
			return fault.Classify(err)
		}

		// Serialize before reading. The lock releases on commit, and
		// the next waiter's read then sees the committed insert.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", sequenceLockName).Error; err != nil {
			return fault.Classify(err)
		}

		var tail dataRecord
		next := int64(1)
		err := tx.Order("running_number DESC").Limit(1).Take(&tail).Error
		switch {
		case err == nil:
			next = tail.RunningNumber + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Empty table: this caller bootstraps the sequence at 1.
		default:
			return fault.Classify(err)
		}

		now := time.Now().UTC()
		record := dataRecord{
			ID:            uuid.NewString(),
			UniqueCode:    domain.CodeFor(next),
			RunningNumber: next,
			Payload:       req.Payload,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fault.Classify(err)
		}
		out = toDomain(record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all records, newest allocation first.
func (g *Generator) List(ctx context.Context) ([]domain.DataRecord, error) {
	if err := g.ensureDB(); err != nil {
		return nil, err
	}
	var rows []dataRecord
	if err := g.db.WithContext(ctx).
		Order("running_number DESC").
		Find(&rows).Error; err != nil {
		return nil, fault.Classify(err)
	}
	records := make([]domain.DataRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, *toDomain(row))
	}
	return records, nil
}

// PurgeOlderThan deletes records created before the cutoff and reports
// how many went away. Purging trims history only; the sequence keeps
// counting from its high-water mark as long as the tail row survives.
func (g *Generator) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := g.ensureDB(); err != nil {
		return 0, err
	}
	res := g.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&dataRecord{})
	if res.Error != nil {
		return 0, fault.Classify(res.Error)
	}
	return res.RowsAffected, nil
}

func toDomain(row dataRecord) *domain.DataRecord {
	return &domain.DataRecord{
		ID:            row.ID,
		UniqueCode:    row.UniqueCode,
		RunningNumber: row.RunningNumber,
		Payload:       row.Payload,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func (g *Generator) ensureDB() error {
	if g == nil || g.db == nil {
		return errors.New("postgres record generator not configured")
	}
	return nil
}
