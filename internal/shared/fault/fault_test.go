package fault

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPostgresCodes(t *testing.T) {
	cases := []struct {
		code string
		want Kind
	}{
		{pgSerializationFailure, KindTransient},
		{pgDeadlockDetected, KindTransient},
		{pgLockNotAvailable, KindTransient},
		{pgQueryCanceled, KindTransient},
		{pgTooManyConnections, KindTransient},
		{"08006", KindTransient},
		{pgUniqueViolation, KindConflict},
		{"23503", KindPersistence},
		{"42703", KindPersistence},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := &pgconn.PgError{Code: tc.code, Message: "boom"}
			assert.Equal(t, tc.want, KindOf(err))
		})
	}
}

func TestClassifyContextErrors(t *testing.T) {
	assert.Equal(t, KindTransient, KindOf(context.Canceled))
	assert.Equal(t, KindTransient, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindTransient, KindOf(fmt.Errorf("tx: %w", context.DeadlineExceeded)))
}

func TestExplicitKindSurvivesWrapping(t *testing.T) {
	inner := New(KindBusinessRule, errors.New("insufficient stock"))
	wrapped := fmt.Errorf("place order: %w", inner)
	assert.Equal(t, KindBusinessRule, KindOf(wrapped))
	assert.False(t, IsTransient(wrapped))
}

func TestClassifyIdempotent(t *testing.T) {
	err := Classify(&pgconn.PgError{Code: pgDeadlockDetected})
	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	// A second pass must not re-wrap or change the kind.
	again := Classify(err)
	assert.Equal(t, err, again)
}

func TestNilErrors(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.NoError(t, New(KindTransient, nil))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
