package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

func TestExecError_ClassifiesPostgresErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "active slot index",
			err:  &pq.Error{Code: "23505", Constraint: activeSlotConstraint},
			want: storage.ErrSlotTaken,
		},
		{
			name: "other unique constraint",
			err:  &pq.Error{Code: "23505", Constraint: "bookings_booking_id_key"},
			want: ErrExecQuery,
		},
		{
			name: "serialization failure",
			err:  &pq.Error{Code: "40001"},
			want: storage.ErrWriteConflict,
		},
		{
			name: "deadlock",
			err:  &pq.Error{Code: "40P01"},
			want: storage.ErrWriteConflict,
		},
		{
			name: "anything else",
			err:  errors.New("connection reset"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, execError("Create - execute insert", tt.err), tt.want)
		})
	}
}

func TestDateParam_KeepsCivilDate(t *testing.T) {
	lateEvening := time.Date(2025, 6, 4, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

	assert.Equal(t, "2025-06-04", dateParam(lateEvening))
}

func TestReturning_ListsEveryBookingColumn(t *testing.T) {
	clause := returning()

	for _, col := range bookingColumns {
		assert.Contains(t, clause, col)
	}
}
