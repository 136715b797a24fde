package dbmetrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM bookings"))
	assert.Equal(t, "insert", operation("  INSERT INTO bookings"))
	assert.Equal(t, "unknown", operation(""))
}

func TestGetExecutor_PrefersTransaction(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))

	tx := SqlTxWrapper{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, nil))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: CodeSerializationFailure}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("wrapped: %w", &pq.Error{Code: CodeDeadlockDetected})))
	assert.True(t, IsSerializationFailure(fmt.Errorf("%w: commit", ErrSerializationFailure)))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: CodeUniqueViolation, Constraint: "bookings_active_slot_uq"}
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "bookings_active_slot_uq"))
	assert.False(t, IsUniqueViolation(err, "other"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: CodeSerializationFailure}, ""))
}
