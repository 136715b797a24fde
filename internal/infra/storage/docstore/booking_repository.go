package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

// BookingRepository stores bookings as documents with an embedded timeline
type BookingRepository struct {
	coll     *mongo.Collection
	dayLocks *mongo.Collection
}

// Create inserts the booking; the partial unique index rejects a second active booking for the slot
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	now := time.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt

	if _, err := r.coll.InsertOne(ctx, toBookingDocument(b)); err != nil {
		return nil, wrap("Create - insert booking", err)
	}
	return b, nil
}

// GetByBookingID loads one booking
func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var doc bookingDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "bookingId", Value: bookingID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrBookingNotFound
	}
	if err != nil {
		return nil, wrap("GetByBookingID - find", err)
	}
	return decodeBooking(doc)
}

// GetByCustomer lists a customer's bookings newest first.
// When the server refuses the sort (missing index) it retries unsorted and sorts in memory.
func (r *BookingRepository) GetByCustomer(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	filter := bson.D{{Key: "customerId", Value: customerID}}
	if status != nil {
		filter = append(filter, bson.E{Key: "status", Value: string(*status)})
	}

	sorted := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "bookingId", Value: -1}})
	bookings, err := r.find(ctx, filter, sorted)
	if err == nil {
		return bookings, nil
	}
	if !isSortRefused(err) {
		return nil, wrap("GetByCustomer - find", err)
	}

	bookings, err = r.find(ctx, filter, options.Find())
	if err != nil {
		return nil, wrap("GetByCustomer - find unsorted", err)
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].BookingID > bookings[j].BookingID
	})
	return bookings, nil
}

// GetByVendor lists a vendor's bookings ordered by date and slot.
// Inside a transaction a single-date read also bumps the day's lock document,
// so two transactions booking the same day conflict on commit.
func (r *BookingRepository) GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error) {
	if mongo.SessionFromContext(ctx) != nil && filter.IsSingleDate() {
		if err := r.touchDay(ctx, filter.VendorID, *filter.StartDate); err != nil {
			return nil, err
		}
	}

	q := bson.D{{Key: "vendorId", Value: filter.VendorID}}
	dateRange := bson.D{}
	if filter.StartDate != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: dateKey(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: dateKey(*filter.EndDate)})
	}
	if len(dateRange) > 0 {
		q = append(q, bson.E{Key: "eventDate", Value: dateRange})
	}
	if filter.Status != nil {
		q = append(q, bson.E{Key: "status", Value: string(*filter.Status)})
	} else if !filter.IncludeInactive {
		q = append(q, bson.E{Key: "active", Value: true})
	}

	opts := options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}, {Key: "slotStart", Value: 1}})
	bookings, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, wrap("GetByVendor - find", err)
	}
	return bookings, nil
}

// UpdateStatus sets the new status and pushes the timeline entry in one document update,
// conditional on the booking still being in expected.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, expected domain.BookingStatus, change domain.StatusChange) (*domain.Booking, error) {
	filter := bson.D{
		{Key: "bookingId", Value: bookingID},
		{Key: "status", Value: string(expected)},
	}
	if change.ExpectedPayment != nil {
		filter = append(filter, bson.E{Key: "paymentStatus", Value: string(*change.ExpectedPayment)})
	}

	set := bson.D{
		{Key: "status", Value: string(change.To)},
		{Key: "active", Value: change.To != domain.StatusCancelled},
		{Key: "updatedAt", Value: change.Entry.Timestamp.UTC()},
	}
	if change.PaymentStatus != nil {
		set = append(set, bson.E{Key: "paymentStatus", Value: string(*change.PaymentStatus)})
	}
	if change.AcceptedVendor != nil {
		set = append(set, bson.E{Key: "acceptedVendor", Value: *change.AcceptedVendor})
	}
	if change.TotalAmount != nil {
		set = append(set, bson.E{Key: "totalAmount", Value: *change.TotalAmount})
	}
	if change.CancellationReason != nil {
		set = append(set, bson.E{Key: "cancellationReason", Value: *change.CancellationReason})
	}

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$push", Value: bson.D{{Key: "timeline", Value: toTimelineDocument(change.Entry)}}},
	}

	var doc bookingDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.GetByBookingID(ctx, bookingID); getErr != nil {
			return nil, getErr
		}
		return nil, storage.ErrStatusMismatch
	}
	if err != nil {
		return nil, wrap("UpdateStatus - find and update", err)
	}
	return decodeBooking(doc)
}

// SetRating stores the review of a completed booking exactly once
func (r *BookingRepository) SetRating(ctx context.Context, bookingID string, rating int, review *string, at time.Time) (*domain.Booking, error) {
	filter := bson.D{
		{Key: "bookingId", Value: bookingID},
		{Key: "status", Value: string(domain.StatusCompleted)},
		{Key: "rating", Value: bson.D{{Key: "$exists", Value: false}}},
	}
	set := bson.D{
		{Key: "rating", Value: rating},
		{Key: "updatedAt", Value: at.UTC()},
	}
	if review != nil {
		set = append(set, bson.E{Key: "review", Value: *review})
	}

	var doc bookingDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetByBookingID(ctx, bookingID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Rating != nil {
			return nil, storage.ErrAlreadyRated
		}
		return nil, storage.ErrStatusMismatch
	}
	if err != nil {
		return nil, wrap("SetRating - find and update", err)
	}
	return decodeBooking(doc)
}

func (r *BookingRepository) touchDay(ctx context.Context, vendorID string, date time.Time) error {
	_, err := r.dayLocks.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: vendorID + "|" + dateKey(date)}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}}},
		options.Update().SetUpsert(true),
	)
	if err == nil {
		return nil
	}
	// a racing upsert of the same lock document is a lost race as well
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: touchDay: %w", storage.ErrWriteConflict, err)
	}
	return wrap("touchDay - upsert lock", err)
}

func (r *BookingRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*domain.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := decodeBooking(doc)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func decodeBooking(doc bookingDocument) (*domain.Booking, error) {
	b, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s: %v", ErrDecode, doc.BookingID, err)
	}
	return b, nil
}
