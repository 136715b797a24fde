package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

// TxManager runs callbacks in multi-document transactions; nested calls join the outer session
type TxManager struct {
	client *mongo.Client
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, options.Transaction().SetReadConcern(readconcern.Majority()).SetWriteConcern(writeconcern.Majority()), fn)
}

// DoSerializable reads from a snapshot; WithTransaction restarts fn on transient write conflicts
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, options.Transaction().SetReadConcern(readconcern.Snapshot()).SetWriteConcern(writeconcern.Majority()), fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, options.Transaction().SetReadConcern(readconcern.Snapshot()).SetReadPreference(readpref.Primary()), fn)
}

func (m *TxManager) run(ctx context.Context, opts *options.TransactionOptions, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: start session: %w", storage.ErrUnavailable, err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	if err != nil && isWriteConflict(err) {
		return fmt.Errorf("%w: %w", storage.ErrWriteConflict, err)
	}
	return err
}
