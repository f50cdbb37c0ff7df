// Package fault classifies errors crossing the persistence boundary so
// callers can branch on a stable kind instead of matching error strings.
package fault

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the stable failure category surfaced to callers.
type Kind int

const (
	// KindUnknown is the zero value; treat as Persistence.
	KindUnknown Kind = iota
	// KindValidation rejects malformed input before any transaction opens.
	KindValidation
	// KindNotFound signals a referenced entity is absent.
	KindNotFound
	// KindBusinessRule signals a rejected-but-well-formed request, e.g.
	// insufficient stock. Always rolled back, never retried.
	KindBusinessRule
	// KindConflict signals a uniqueness violation on insert.
	KindConflict
	// KindTransient signals an infrastructure error (lock-wait timeout,
	// deadlock, serialization failure, connection loss) that is safe to
	// retry as a whole new attempt.
	KindTransient
	// KindPersistence signals an unexpected store error; rolled back and
	// surfaced without automatic retry.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with its cause so both survive wrapping.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New wraps cause with an explicit kind.
func New(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}

// KindOf extracts the kind from err, classifying raw driver errors when
// no explicit kind was attached.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return classify(err)
}

// IsTransient reports whether err is safe to retry as a fresh attempt.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// Classify wraps a raw store error with the kind derived from its
// Postgres error code or context state. Errors that already carry a kind
// pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return New(classify(err), err)
}

// Postgres error codes that signal a retryable condition.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgTooManyConnections   = "53300"
	pgUniqueViolation      = "23505"
)

func classify(err error) Kind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled, pgTooManyConnections:
			return KindTransient
		case pgUniqueViolation:
			return KindConflict
		}
		// Class 08 covers connection exceptions.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return KindTransient
		}
		return KindPersistence
	}
	return KindPersistence
}
