package docstore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/ptr"
)

func TestWrap_ClassifiesDriverErrors(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, wrap("Create", dup), storage.ErrSlotTaken)

	conflict := mongo.CommandError{Code: codeWriteConflict, Name: "WriteConflict"}
	err := wrap("Create", conflict)
	assert.ErrorIs(t, err, storage.ErrWriteConflict)
	assert.True(t, dbmetrics.IsSerializationFailure(err))

	var se mongo.ServerError
	assert.True(t, errors.As(err, &se), "driver error must stay in the chain")

	assert.ErrorIs(t, wrap("Get", errors.New("boom")), ErrQuery)
}

func TestIsSortRefused(t *testing.T) {
	assert.True(t, isSortRefused(mongo.CommandError{Code: codeSortMemoryLimit}))
	assert.True(t, isSortRefused(mongo.CommandError{Code: codeOperationFailed}))
	assert.False(t, isSortRefused(mongo.CommandError{Code: 2}))
	assert.False(t, isSortRefused(errors.New("other")))
}

func TestBookingDocument_KeepsCivilDateAndActiveFlag(t *testing.T) {
	b := &domain.Booking{
		ID:            "id-1",
		BookingID:     "VB-1",
		VendorID:      "v1",
		EventDate:     time.Date(2025, 6, 2, 23, 30, 0, 0, time.FixedZone("x", 3*3600)),
		SlotStart:     "09:00",
		SlotEnd:       "10:00",
		Status:        domain.StatusCancelled,
		PaymentStatus: domain.PaymentPending,
		Budget:        ptr.Ptr(1200.0),
	}

	doc := toBookingDocument(b)
	assert.Equal(t, "2025-06-02", doc.EventDate)
	assert.False(t, doc.Active)

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), back.EventDate)
	assert.Equal(t, 1200.0, *back.Budget)
}

func TestConfigDocument_ToDomain(t *testing.T) {
	doc := configDocument{
		VendorID: "v1",
		WorkingHours: map[string]workingHoursDocument{
			"monday": {Start: "09:00", End: "17:00", IsWorking: true},
			"bogus":  {Start: "09:00", End: "17:00", IsWorking: true},
		},
		Holidays:   []holidayDocument{{Date: "2025-12-25", Reason: "Christmas"}},
		EventTypes: []eventTypeDocument{{Type: "wedding", DurationMinutes: 480, MaxGuests: 200}},
	}

	cfg, err := doc.toDomain()
	require.NoError(t, err)
	assert.Len(t, cfg.WorkingHours, 1)
	assert.True(t, cfg.WorkingHours[time.Monday].IsWorking)
	require.Len(t, cfg.Holidays, 1)
	assert.Equal(t, "Christmas", cfg.Holidays[0].Reason)
	assert.True(t, cfg.EventTypes[0].HasCapacityRange())
}
