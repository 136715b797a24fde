package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/psqlbuilder"
)

const (
	bookingsTable = "bookings"
	timelineTable = "booking_timeline"
)

var bookingColumns = []string{
	"id",
	"booking_id",
	"customer_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"vendor_id",
	"vendor_name",
	"event_date",
	"slot_start",
	"slot_end",
	"event_type",
	"event_location",
	"guest_count",
	"budget",
	"selected_services",
	"total_amount",
	"status",
	"payment_status",
	"accepted_vendor",
	"event_description",
	"specific_requirements",
	"customer_notes",
	"cancellation_reason",
	"rating",
	"review",
	"created_at",
	"updated_at",
}

// Repository stores bookings and their timelines in PostgreSQL
type Repository struct {
	db DBExecutor
	tx Transactor
}

// NewRepository creates a booking repository
func NewRepository(db DBExecutor, tx Transactor) *Repository {
	return &Repository{db: db, tx: tx}
}

// Create inserts the booking with its initial timeline.
// The partial unique index on (vendor_id, event_date, slot_start) turns a lost race into storage.ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	err := r.tx.Do(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		query, args, err := psqlbuilder.Insert(bookingsTable).
			Columns(bookingColumns[1 : len(bookingColumns)-2]...).
			Values(
				b.BookingID,
				b.CustomerID,
				b.CustomerName,
				b.CustomerEmail,
				b.CustomerPhone,
				b.VendorID,
				b.VendorName,
				dateParam(b.EventDate),
				b.SlotStart,
				b.SlotEnd,
				b.EventType,
				b.EventLocation,
				b.GuestCount,
				b.Budget,
				pq.Array(b.SelectedServices),
				b.TotalAmount,
				b.Status,
				b.PaymentStatus,
				b.AcceptedVendor,
				b.EventDescription,
				b.SpecificRequirements,
				b.CustomerNotes,
				b.CancellationReason,
				b.Rating,
				b.Review,
			).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return execError("Create - execute insert", err)
		}

		for _, entry := range b.Timeline {
			if err := r.insertEntry(ctx, executor, b.BookingID, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// GetByBookingID loads a booking with its timeline
func (r *Repository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachTimelines(ctx, executor, []*domain.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByCustomer lists a customer's bookings, newest first
func (r *Repository) GetByCustomer(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("created_at DESC", "booking_id DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByCustomer", query, args)
}

// GetByVendor lists a vendor's bookings ordered by date and slot.
// Inside a transaction a single-date query locks the rows it reads.
func (r *Repository) GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"vendor_id": filter.VendorID}).
		OrderBy("event_date ASC", "slot_start ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"event_date": dateParam(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"event_date": dateParam(*filter.EndDate)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVendor - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "GetByVendor", query, args)
}

// UpdateStatus moves the booking to change.To only while it is still in expected,
// and appends the timeline entry in the same transaction.
func (r *Repository) UpdateStatus(ctx context.Context, bookingID string, expected domain.BookingStatus, change domain.StatusChange) (*domain.Booking, error) {
	var updated *domain.Booking

	err := r.tx.Do(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, r.db)

		updateBuilder := psqlbuilder.Update(bookingsTable).
			Set("status", change.To).
			Set("updated_at", change.Entry.Timestamp).
			Where(squirrel.Eq{"booking_id": bookingID, "status": expected})

		if change.ExpectedPayment != nil {
			updateBuilder = updateBuilder.Where(squirrel.Eq{"payment_status": *change.ExpectedPayment})
		}
		if change.PaymentStatus != nil {
			updateBuilder = updateBuilder.Set("payment_status", *change.PaymentStatus)
		}
		if change.AcceptedVendor != nil {
			updateBuilder = updateBuilder.Set("accepted_vendor", *change.AcceptedVendor)
		}
		if change.TotalAmount != nil {
			updateBuilder = updateBuilder.Set("total_amount", *change.TotalAmount)
		}
		if change.CancellationReason != nil {
			updateBuilder = updateBuilder.Set("cancellation_reason", *change.CancellationReason)
		}

		query, args, err := updateBuilder.Suffix(returning()).ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
		}

		b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return r.missOrMismatch(ctx, bookingID)
		}
		if err != nil {
			return execError("UpdateStatus - execute update", err)
		}

		if err := r.insertEntry(ctx, executor, bookingID, change.Entry); err != nil {
			return err
		}
		if err := r.attachTimelines(ctx, executor, []*domain.Booking{b}); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SetRating stores the review of a completed booking exactly once
func (r *Repository) SetRating(ctx context.Context, bookingID string, rating int, review *string, at time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("rating", rating).
		Set("review", review).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"booking_id": bookingID, "status": domain.StatusCompleted, "rating": nil}).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetRating - build update query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
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
		return nil, execError("SetRating - execute update", err)
	}

	if err := r.attachTimelines(ctx, executor, []*domain.Booking{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repository) missOrMismatch(ctx context.Context, bookingID string) error {
	if _, err := r.GetByBookingID(ctx, bookingID); err != nil {
		return err
	}
	return storage.ErrStatusMismatch
}

func (r *Repository) insertEntry(ctx context.Context, executor DBExecutor, bookingID string, entry domain.TimelineEntry) error {
	query, args, err := psqlbuilder.Insert(timelineTable).
		Columns("booking_id", "status", "label", "description", "actor_id", "actor_role", "created_at").
		Values(bookingID, entry.Status, entry.Label, entry.Description, entry.ActorID, entry.ActorRole, entry.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return execError("insertEntry - execute insert", err)
	}
	return nil
}

func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Booking, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError(op+" - execute query", err)
	}

	bookings, err := scanBookings(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.attachTimelines(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachTimelines loads the timelines of all bookings in one query
func (r *Repository) attachTimelines(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(bookings))
	byID := make(map[string]*domain.Booking, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.BookingID)
		byID[b.BookingID] = b
		b.Timeline = make([]domain.TimelineEntry, 0, 4)
	}

	query, args, err := psqlbuilder.Select("booking_id", "status", "label", "description", "actor_id", "actor_role", "created_at").
		From(timelineTable).
		Where("booking_id = ANY(?)", pq.Array(ids)).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachTimelines - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return execError("attachTimelines - execute query", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID string
			entry     domain.TimelineEntry
		)
		if err := rows.Scan(&bookingID, &entry.Status, &entry.Label, &entry.Description, &entry.ActorID, &entry.ActorRole, &entry.Timestamp); err != nil {
			return fmt.Errorf("%w: attachTimelines - scan row: %v", ErrScanRow, err)
		}
		entry.Timestamp = entry.Timestamp.UTC()
		if b, ok := byID[bookingID]; ok {
			b.Timeline = append(b.Timeline, entry)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachTimelines - rows error: %v", ErrScanRow, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b         domain.Booking
		services  pq.StringArray
		eventDate time.Time
	)

	err := row.Scan(
		&b.ID,
		&b.BookingID,
		&b.CustomerID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.VendorID,
		&b.VendorName,
		&eventDate,
		&b.SlotStart,
		&b.SlotEnd,
		&b.EventType,
		&b.EventLocation,
		&b.GuestCount,
		&b.Budget,
		&services,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.AcceptedVendor,
		&b.EventDescription,
		&b.SpecificRequirements,
		&b.CustomerNotes,
		&b.CancellationReason,
		&b.Rating,
		&b.Review,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.EventDate = domain.DateOf(eventDate)
	b.SelectedServices = []string(services)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func returning() string {
	return "RETURNING " + strings.Join(bookingColumns, ", ")
}

// dateParam sends civil dates as text so the session time zone never shifts them
func dateParam(t time.Time) string {
	return domain.DateOf(t).Format(domain.DateFormat)
}
