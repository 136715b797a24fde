package docstore

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

var (
	// ErrQuery is returned when a MongoDB command fails
	ErrQuery = errors.New("docstore: query failed")

	// ErrDecode is returned when a document cannot be decoded
	ErrDecode = errors.New("docstore: decode failed")
)

const (
	codeWriteConflict     = 112
	codeSortMemoryLimit   = 292
	codeOperationFailed   = 96
	labelTransientTxError = "TransientTransactionError"
)

// wrap keeps the driver error in the chain so WithTransaction still sees its labels
func wrap(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s: %w", storage.ErrSlotTaken, op, err)
	case isWriteConflict(err):
		return fmt.Errorf("%w: %s: %w", storage.ErrWriteConflict, op, err)
	case mongo.IsTimeout(err) || mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %s: %w", storage.ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrQuery, op, err)
	}
}

func isWriteConflict(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeWriteConflict) || se.HasErrorLabel(labelTransientTxError)
}

// isSortRefused reports a server that cannot sort without an index
func isSortRefused(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCode(codeSortMemoryLimit) || se.HasErrorCode(codeOperationFailed)
}
