package dbmetrics

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes used by the repositories
const (
	CodeUniqueViolation      = "23505"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// ErrSerializationFailure marks errors that are safe to retry as a whole transaction
var ErrSerializationFailure = errors.New("dbmetrics: serialization failure")

// IsSerializationFailure reports serialization or deadlock aborts
func IsSerializationFailure(err error) bool {
	if errors.Is(err, ErrSerializationFailure) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == CodeSerializationFailure || pqErr.Code == CodeDeadlockDetected
	}
	return false
}

// IsUniqueViolation reports a unique constraint violation, optionally for a specific constraint
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
