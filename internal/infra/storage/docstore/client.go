// Package docstore is the MongoDB persistence backend.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingsCollection = "bookings"
	configsCollection  = "vendor_availability_config"
	dayLocksCollection = "booking_day_locks"
)

// Logger is used for best-effort start-up steps
type Logger interface {
	Warn(format string, v ...interface{})
}

// Store bundles the collections of one database
type Store struct {
	client   *mongo.Client
	bookings *mongo.Collection
	configs  *mongo.Collection
	dayLocks *mongo.Collection
}

// Connect dials MongoDB and verifies the connection
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		bookings: db.Collection(bookingsCollection),
		configs:  db.Collection(configsCollection),
		dayLocks: db.Collection(dayLocksCollection),
	}, nil
}

// EnsureIndexes creates the slot uniqueness index, which is required,
// and the listing indexes, which are best effort.
func (s *Store) EnsureIndexes(ctx context.Context, log Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	required := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_id_uq"),
		},
		{
			Keys: bson.D{{Key: "vendorId", Value: 1}, {Key: "eventDate", Value: 1}, {Key: "slotStart", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}).
				SetName("active_slot_uq"),
		},
	}
	if _, err := s.bookings.Indexes().CreateMany(ctx, required); err != nil {
		return fmt.Errorf("docstore: create booking indexes: %w", err)
	}

	optional := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("customer_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}, {Key: "eventDate", Value: 1}},
			Options: options.Index().SetName("vendor_date_idx"),
		},
	}
	if _, err := s.bookings.Indexes().CreateMany(ctx, optional); err != nil && log != nil {
		log.Warn("docstore: listing indexes not created, falling back to in-memory sort: %v", err)
	}
	return nil
}

// Bookings returns the booking repository
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{coll: s.bookings, dayLocks: s.dayLocks}
}

// Configs returns the configuration repository
func (s *Store) Configs() *ConfigRepository {
	return &ConfigRepository{coll: s.configs}
}

// TxManager returns a transaction manager bound to the store's client
func (s *Store) TxManager() *TxManager {
	return &TxManager{client: s.client}
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
